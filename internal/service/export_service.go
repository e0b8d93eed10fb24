package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAssignments = errors.New("该周暂无排班记录")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 周排班表：行 = 班次类型，列 = 周一~周日，单元格 = 值班人员姓名
//   - 月度工时表：行 = 人员，工时升序（与排班页均衡核查一致）
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportWeekPlanning 导出某周排班表为 Excel
	ExportWeekPlanning(ctx context.Context, weekStart string) (*bytes.Buffer, string, error)
	// ExportMonthlyHours 导出月度工时统计为 Excel
	ExportMonthlyHours(ctx context.Context, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	stats  StatsService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, stats StatsService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, stats: stats, logger: logger}
}

func (s *exportService) ExportWeekPlanning(ctx context.Context, weekStart string) (*bytes.Buffer, string, error) {
	start, _, err := parseRange(weekStart, weekStart)
	if err != nil {
		return nil, "", err
	}
	start = mondayOf(start)
	end := start.AddDate(0, 0, 6)

	assignments, err := s.repo.Assignment.ListByDateRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询本周排班失败", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 {
		return nil, "", ErrExportNoAssignments
	}

	shiftTypes, err := s.repo.ShiftType.List(ctx)
	if err != nil {
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, "", err
	}

	// 索引: shiftTypeID:date → 人员姓名列表
	cellNames := make(map[string][]string)
	for _, a := range assignments {
		name := a.UserID
		if a.User != nil {
			name = a.User.FullName()
		}
		key := a.ShiftTypeID + ":" + dayKey(a.Date)
		cellNames[key] = append(cellNames[key], name)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周排班表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "H", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("排班表 %s ~ %s", dayKey(start), dayKey(end)))
	f.MergeCell(sheetName, "A1", "H1")

	// 表头: 班次 | 7 个日期
	f.SetCellValue(sheetName, "A2", "班次")
	dayNames := []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}
	for d := 0; d < 7; d++ {
		col, _ := excelize.ColumnNumberToName(2 + d)
		date := start.AddDate(0, 0, d)
		f.SetCellValue(sheetName, col+"2", fmt.Sprintf("%s %s", dayNames[d], date.Format("01-02")))
	}
	f.SetCellStyle(sheetName, "A2", "H2", headerStyle)

	// 数据行
	row := 3
	for _, st := range shiftTypes {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row),
			fmt.Sprintf("%s (%s-%s)", st.Name, st.StartTime, st.EndTime))
		for d := 0; d < 7; d++ {
			date := start.AddDate(0, 0, d)
			if !st.AppliesTo(weekdayName(date)) {
				continue
			}
			col, _ := excelize.ColumnNumberToName(2 + d)
			names := cellNames[st.ShiftTypeID+":"+dayKey(date)]
			cell := "未排"
			if len(names) > 0 {
				cell = strings.Join(names, "\n")
			}
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), cell)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("planning_%s.xlsx", dayKey(start))
	return buf, filename, nil
}

func (s *exportService) ExportMonthlyHours(ctx context.Context, year, month int) (*bytes.Buffer, string, error) {
	stats, err := s.stats.MonthlyHours(ctx, &dto.MonthlyHoursRequest{Year: year, Month: month})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "月度工时"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "E", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("月度工时统计 %d-%02d", year, month))
	f.MergeCell(sheetName, "A1", "E1")

	headers := []string{"姓名", "职级", "雇佣类别", "班次数", "工时"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(1 + i)
		f.SetCellValue(sheetName, col+"2", h)
	}
	f.SetCellStyle(sheetName, "A2", "E2", headerStyle)

	for i, e := range stats.Entries {
		row := 3 + i
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Grade)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.EmploymentType)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Assignments)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Hours)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("hours_%d-%02d.xlsx", year, month)
	return buf, filename, nil
}

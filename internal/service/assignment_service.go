package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
)

// ── 排班模块业务错误 ──

var (
	ErrAssignmentNotFound = errors.New("排班记录不存在")
	ErrUserNotFound       = errors.New("人员不存在")
	ErrShiftTypeNotFound  = errors.New("班次类型不存在")
	ErrInvalidDate        = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrEndBeforeStart     = errors.New("结束日期早于起始日期")
	ErrWeekdaysRequired   = errors.New("weekly 模式必须指定星期集合")
)

// AssignmentService 排班台账业务接口
type AssignmentService interface {
	// 手动单条排班（允许与其他班次同日叠排）
	Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	// 重复排班展开（single/weekly/monthly，幂等）
	CreateRecurring(ctx context.Context, req *dto.CreateRecurringRequest, callerID string) (*dto.RecurringResponse, error)
	// 区间排班表
	ListRange(ctx context.Context, from, to string) ([]dto.AssignmentResponse, error)
	// 我的排班
	ListMine(ctx context.Context, userID string, from, to string) ([]dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := s.checkRefs(ctx, req.UserID, req.ShiftTypeID); err != nil {
		return nil, err
	}

	a := &model.Assignment{
		UserID:      req.UserID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
		Origin:      model.OriginManual,
		Status:      model.AssignmentPlanned,
	}
	a.CreatedBy = &callerID
	a.UpdatedBy = &callerID

	if err := s.repo.Assignment.Create(ctx, a); err != nil {
		s.logger.Error("创建排班失败", zap.Error(err))
		return nil, err
	}

	resp := toAssignmentResponse(a)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// CreateRecurring — 重复排班展开器
//
// single  起始日一条
// weekly  起止区间内每个命中星期集合的日期一条
// monthly 保持起始日的"几号"逐月推进，短月无对应日则静默跳过
// 三种模式均以 (人, 班次, 日期) 三元组查重，重复提交幂等；
// 校验失败在任何写入前拒绝
// ════════════════════════════════════════════════════════════

func (s *assignmentService) CreateRecurring(ctx context.Context, req *dto.CreateRecurringRequest, callerID string) (*dto.RecurringResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end := start
	if req.EndDate != "" {
		end, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}
	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}
	if req.Recurrence == "weekly" && len(req.Weekdays) == 0 {
		return nil, ErrWeekdaysRequired
	}
	if err := s.checkRefs(ctx, req.UserID, req.ShiftTypeID); err != nil {
		return nil, err
	}

	dates := expandOccurrences(req.Recurrence, start, end, req.Weekdays)

	// 查重索引：已有 (人, 班次, 日期) 三元组
	existing, err := s.repo.Assignment.ListByUserAndDateRange(ctx, req.UserID, start, end)
	if err != nil {
		s.logger.Error("查询已有排班失败", zap.Error(err))
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, a := range existing {
		if a.ShiftTypeID == req.ShiftTypeID {
			taken[dayKey(a.Date)] = true
		}
	}

	var batch []model.Assignment
	skipped := 0
	for _, d := range dates {
		if taken[dayKey(d)] {
			skipped++
			continue
		}
		a := model.Assignment{
			UserID:      req.UserID,
			ShiftTypeID: req.ShiftTypeID,
			Date:        d,
			Origin:      model.OriginManualRecurring,
			Status:      model.AssignmentPlanned,
		}
		a.CreatedBy = &callerID
		a.UpdatedBy = &callerID
		batch = append(batch, a)
	}

	if err := s.repo.Assignment.BatchCreate(ctx, batch); err != nil {
		s.logger.Error("批量创建重复排班失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.AssignmentResponse, 0, len(batch))
	for i := range batch {
		items = append(items, toAssignmentResponse(&batch[i]))
	}
	return &dto.RecurringResponse{
		Created: len(batch),
		Skipped: skipped,
		Items:   items,
	}, nil
}

// expandOccurrences 按重复模式生成目标日期序列（升序）
func expandOccurrences(recurrence string, start, end time.Time, weekdays []string) []time.Time {
	switch recurrence {
	case "weekly":
		wanted := make(map[string]bool, len(weekdays))
		for _, w := range weekdays {
			wanted[w] = true
		}
		var dates []time.Time
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if wanted[weekdayName(d)] {
				dates = append(dates, d)
			}
		}
		return dates
	case "monthly":
		day := start.Day()
		var dates []time.Time
		for y, m := start.Year(), start.Month(); ; {
			// 构造当月的对应日；短月溢出时 time.Date 会进位到下月，借此检测并跳过
			d := time.Date(y, m, day, 0, 0, 0, 0, start.Location())
			if d.Day() == day && !d.Before(start) && !d.After(end) {
				dates = append(dates, d)
			}
			m++
			if m > 12 {
				m = 1
				y++
			}
			if time.Date(y, m, 1, 0, 0, 0, 0, start.Location()).After(end) {
				break
			}
		}
		return dates
	default: // single
		return []time.Time{start}
	}
}

func (s *assignmentService) ListRange(ctx context.Context, from, to string) ([]dto.AssignmentResponse, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByDateRange(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("查询排班表失败", zap.Error(err))
		return nil, err
	}
	return toAssignmentResponses(assignments), nil
}

func (s *assignmentService) ListMine(ctx context.Context, userID string, from, to string) ([]dto.AssignmentResponse, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByUserAndDateRange(ctx, userID, fromDate, toDate)
	if err != nil {
		s.logger.Error("查询个人排班失败", zap.Error(err))
		return nil, err
	}
	return toAssignmentResponses(assignments), nil
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Assignment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询排班失败", zap.Error(err))
		return err
	}
	if err := s.repo.Assignment.Delete(ctx, id); err != nil {
		s.logger.Error("删除排班失败", zap.Error(err))
		return err
	}
	return nil
}

// checkRefs 校验人员与班次引用存在（任何写入前执行）
func (s *assignmentService) checkRefs(ctx context.Context, userID, shiftTypeID string) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.repo.ShiftType.GetByID(ctx, shiftTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftTypeNotFound
		}
		return err
	}
	return nil
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, ErrEndBeforeStart
	}
	return fromDate, toDate, nil
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:          a.AssignmentID,
		UserID:      a.UserID,
		ShiftTypeID: a.ShiftTypeID,
		Date:        dayKey(a.Date),
		Origin:      a.Origin,
		Status:      a.Status,
	}
	if a.User != nil {
		resp.UserName = a.User.FullName()
	}
	if a.ShiftType != nil {
		resp.ShiftTypeName = a.ShiftType.Name
	}
	return resp
}

func toAssignmentResponses(assignments []model.Assignment) []dto.AssignmentResponse {
	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		items = append(items, toAssignmentResponse(&assignments[i]))
	}
	return items
}

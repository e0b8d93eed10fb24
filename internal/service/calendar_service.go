package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"profiremanager/backend/internal/repository"
)

// CalendarService 个人排班日历导出（iCalendar）
// 生成的 .ics 可订阅到手机日历，班次时间按 shift_types 的 HH:MM 落到当日
type CalendarService interface {
	ExportUserCalendar(ctx context.Context, userID string, from, to string) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) ExportUserCalendar(ctx context.Context, userID string, from, to string) (string, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return "", err
	}

	assignments, err := s.repo.Assignment.ListByUserAndDateRange(ctx, userID, fromDate, toDate)
	if err != nil {
		s.logger.Error("查询个人排班失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ProFireManager//Planning//FR")

	for _, a := range assignments {
		evt := cal.AddEvent(fmt.Sprintf("assignment-%s@profiremanager", a.AssignmentID))
		evt.SetDtStampTime(time.Now())

		summary := "值班"
		start := a.Date
		end := a.Date.Add(8 * time.Hour)
		if a.ShiftType != nil {
			summary = "值班 - " + a.ShiftType.Name
			start = atClock(a.Date, a.ShiftType.StartTime)
			end = atClock(a.Date, a.ShiftType.EndTime)
			// 跨夜班次结束时间落到次日
			if !end.After(start) {
				end = end.AddDate(0, 0, 1)
			}
		}
		evt.SetSummary(summary)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetDescription(fmt.Sprintf("来源: %s / 状态: %s", a.Origin, a.Status))
	}

	return cal.Serialize(), nil
}

// atClock 把 HH:MM 叠加到日期上；格式异常时回退当日零点
func atClock(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

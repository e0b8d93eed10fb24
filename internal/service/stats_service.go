package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
)

// StatsService 统计业务接口
type StatsService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	// 区间覆盖率：Σ min(实排, 需求) / Σ 需求 × 100
	Coverage(ctx context.Context, req *dto.CoverageRequest) (*dto.CoverageResponse, error)
	// 月度工时（按台账即时重算，不做跨运行缓存）
	MonthlyHours(ctx context.Context, req *dto.MonthlyHoursRequest) (*dto.MonthlyHoursResponse, error)
	UserMonthlyStats(ctx context.Context, userID string) (*dto.UserHoursEntry, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger}
}

func (s *statsService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	roster, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职人员失败", zap.Error(err))
		return nil, err
	}
	_, total, err := s.repo.User.List(ctx, 0, 1)
	if err != nil {
		s.logger.Error("查询人员总数失败", zap.Error(err))
		return nil, err
	}

	weekStart := mondayOf(time.Now())
	weekEnd := weekStart.AddDate(0, 0, 6)

	assignments, err := s.repo.Assignment.ListByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("查询本周排班失败", zap.Error(err))
		return nil, err
	}

	_, pendingTotal, err := s.repo.ReplacementRequest.List(ctx, model.RequestPending, 0, 1)
	if err != nil {
		s.logger.Error("查询待处理替换申请失败", zap.Error(err))
		return nil, err
	}

	shiftTypes, err := s.repo.ShiftType.List(ctx)
	if err != nil {
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, err
	}

	rate, _, _ := coverageRate(weekStart, weekEnd, shiftTypes, assignments)

	return &dto.DashboardResponse{
		PersonnelTotal:      int(total),
		PersonnelActive:     len(roster),
		WeekAssignments:     len(assignments),
		PendingReplacements: int(pendingTotal),
		CoverageRate:        rate,
	}, nil
}

func (s *statsService) Coverage(ctx context.Context, req *dto.CoverageRequest) (*dto.CoverageResponse, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	shiftTypes, err := s.repo.ShiftType.List(ctx)
	if err != nil {
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}

	rate, covered, required := coverageRate(from, to, shiftTypes, assignments)
	return &dto.CoverageResponse{
		From:          dayKey(from),
		To:            dayKey(to),
		RequiredTotal: required,
		CoveredTotal:  covered,
		CoverageRate:  rate,
	}, nil
}

// coverageRate 覆盖率计算
// 每个 (日期, 适用班次) 槽位 filled = min(实排, 需求)；
// 比率封顶 100、保留 1 位小数；需求总数为 0 时返回 0 而非除零
func coverageRate(from, to time.Time, shiftTypes []model.ShiftType, assignments []model.Assignment) (rate float64, covered, required int) {
	counts := make(map[string]int)
	for _, a := range assignments {
		counts[a.ShiftTypeID+":"+dayKey(a.Date)]++
	}

	for _, st := range shiftTypes {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if !st.AppliesTo(weekdayName(d)) {
				continue
			}
			required += st.RequiredCount
			actual := counts[st.ShiftTypeID+":"+dayKey(d)]
			if actual > st.RequiredCount {
				actual = st.RequiredCount
			}
			covered += actual
		}
	}

	if required == 0 {
		return 0, covered, required
	}
	rate = float64(covered) / float64(required) * 100
	if rate > 100 {
		rate = 100
	}
	return math.Round(rate*10) / 10, covered, required
}

func (s *statsService) MonthlyHours(ctx context.Context, req *dto.MonthlyHoursRequest) (*dto.MonthlyHoursResponse, error) {
	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	// 工时在库内按班次时长聚合，条数在内存统计
	hours, err := s.repo.Assignment.SumHoursByUser(ctx, from, to)
	if err != nil {
		s.logger.Error("聚合月度工时失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("查询月度排班失败", zap.Error(err))
		return nil, err
	}
	roster, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职人员失败", zap.Error(err))
		return nil, err
	}

	count := make(map[string]int)
	for _, a := range assignments {
		count[a.UserID]++
	}

	entries := make([]dto.UserHoursEntry, 0, len(roster))
	for _, u := range roster {
		entries = append(entries, dto.UserHoursEntry{
			UserID:         u.UserID,
			Name:           u.FullName(),
			Grade:          u.Grade,
			EmploymentType: u.EmploymentType,
			Hours:          hours[u.UserID],
			Assignments:    count[u.UserID],
		})
	}
	// 升序排列，排班页直接用于均衡核查
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Hours < entries[j].Hours
	})

	return &dto.MonthlyHoursResponse{
		Year:    req.Year,
		Month:   req.Month,
		Entries: entries,
	}, nil
}

func (s *statsService) UserMonthlyStats(ctx context.Context, userID string) (*dto.UserHoursEntry, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("查询人员失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)

	assignments, err := s.repo.Assignment.ListByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("查询个人排班失败", zap.Error(err))
		return nil, err
	}

	var hours float64
	for _, a := range assignments {
		if a.ShiftType != nil {
			hours += float64(a.ShiftType.DurationHours)
		}
	}

	return &dto.UserHoursEntry{
		UserID:         user.UserID,
		Name:           user.FullName(),
		Grade:          user.Grade,
		EmploymentType: user.EmploymentType,
		Hours:          hours,
		Assignments:    len(assignments),
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"profiremanager/backend/config"
	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
	pkgerrors "profiremanager/backend/pkg/errors"
	"profiremanager/backend/pkg/redis"
)

// ── 自动分配模块业务错误 ──

var (
	ErrInvalidWeekStart   = errors.New("周起始日期格式无效")
	ErrNoShiftTypes       = errors.New("未配置任何班次类型")
	ErrInvariantViolation = errors.New("分配结果违反排班不变量，本次运行已整体放弃")
)

// 优先级规则标识（分配理由叙述）
const (
	policyManualSkip      = "manual-skip"
	policyAvailability    = "availability-pool"
	policyOfficerRequired = "officer-constraint"
	policyOfficerFallback = "officer-fallback"
	policyEquityRotation  = "equity-rotation"
	policySeniorityBreak  = "seniority-tie-break"
)

// AttributionService 自动分配业务接口
type AttributionService interface {
	// 对目标周执行一次自动分配（req.Demo 为演示模式）
	Run(ctx context.Context, req *dto.AttributionRequest, callerID string) (*dto.AttributionResponse, error)
	// 清除目标周的自动分配结果，人工排班保留
	ResetWeek(ctx context.Context, weekStart string) (*dto.ResetResponse, error)
}

type attributionService struct {
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil（Redis 降级时用进程内互斥兜底）
	cfg    *config.ScheduleConfig
	logger *zap.Logger

	localMu sync.Mutex
}

// NewAttributionService 创建 AttributionService 实例
func NewAttributionService(repo *repository.Repository, rdb *redis.Client, cfg *config.ScheduleConfig, logger *zap.Logger) AttributionService {
	return &attributionService{repo: repo, rdb: rdb, cfg: cfg, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Run — 单趟贪心自动分配
//
// 按 班次类型 × 适用日 × 编制缺口 逐一填充：
//   1. 人工意图跳过（manual/manual_recurring 已占的槽位不碰）
//   2. 候选池 = 兼职 + 当日未排 + 当日有匹配可用申报（演示模式放宽）
//   3. 警官约束（有警官候选则只取警官，否则整池兜底）
//   4. 当月累计工时升序（运行中每次选中即时累加）
//   5. 同工时按入职日期最早者，再按花名册稳定序
// 全程内存决策，最终单事务整批落库（全有或全无）
// ════════════════════════════════════════════════════════════

func (s *attributionService) Run(ctx context.Context, req *dto.AttributionRequest, callerID string) (*dto.AttributionResponse, error) {
	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		return nil, ErrInvalidWeekStart
	}
	// 归一化到该周周一
	weekStart = mondayOf(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	// ── 周级互斥：同一周的两次分配串行执行 ──
	release, err := s.lockWeek(ctx, weekStart.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer release()

	// ── 阶段1: 快照加载 ──

	roster, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职人员失败", zap.Error(err))
		return nil, err
	}

	shiftTypes, err := s.repo.ShiftType.List(ctx)
	if err != nil {
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, err
	}
	if len(shiftTypes) == 0 {
		return nil, ErrNoShiftTypes
	}

	weekAssignments, err := s.repo.Assignment.ListByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("查询本周排班失败", zap.Error(err))
		return nil, err
	}

	availabilities, err := s.repo.Availability.ListByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("查询可用性申报失败", zap.Error(err))
		return nil, err
	}

	// 周可跨月，月度工时取该周涉及的全部月份
	monthFrom := time.Date(weekStart.Year(), weekStart.Month(), 1, 0, 0, 0, 0, weekStart.Location())
	monthTo := time.Date(weekEnd.Year(), weekEnd.Month(), 1, 0, 0, 0, 0, weekEnd.Location()).AddDate(0, 1, -1)
	monthAssignments, err := s.repo.Assignment.ListByDateRange(ctx, monthFrom, monthTo)
	if err != nil {
		s.logger.Error("查询月度排班失败", zap.Error(err))
		return nil, err
	}

	// ── 阶段2: 运行台账构建 ──

	shiftHours := make(map[string]int, len(shiftTypes))
	for _, st := range shiftTypes {
		shiftHours[st.ShiftTypeID] = st.Hours(s.cfg.DefaultShiftHours)
	}

	ledger := newRunLedger()
	for _, a := range monthAssignments {
		ledger.addHours(a.UserID, a.Date, float64(shiftHours[a.ShiftTypeID]))
	}
	for _, a := range weekAssignments {
		ledger.occupy(a.UserID, a.Date)
		ledger.fillSlot(a.ShiftTypeID, a.Date)
		if a.IsManual() {
			ledger.markManual(a.ShiftTypeID, a.Date)
		}
	}

	// 可用性索引: userID:date → 当日申报列表
	availIndex := make(map[string][]model.Availability)
	for i := range availabilities {
		av := availabilities[i]
		key := av.UserID + ":" + dayKey(av.Date)
		availIndex[key] = append(availIndex[key], av)
	}

	// 花名册稳定序（决定同工时同入职日期时的最终顺序）
	rosterOrder := make(map[string]int, len(roster))
	for i, u := range roster {
		rosterOrder[u.UserID] = i
	}

	origin := model.OriginAuto
	if req.Demo {
		origin = model.OriginAutoDemo
	}

	// ── 阶段3: 逐槽位贪心填充 ──

	var created []model.Assignment
	warnings := make([]string, 0)
	policySet := make(map[string]bool)
	slotsTotal := 0
	unfilled := 0

	for _, st := range shiftTypes {
		for d := 0; d < 7; d++ {
			date := weekStart.AddDate(0, 0, d)
			if !st.AppliesTo(weekdayName(date)) {
				continue
			}
			slotsTotal += st.RequiredCount

			// 1. 人工意图优先：手动占位的槽位整体跳过
			if ledger.hasManual(st.ShiftTypeID, date) {
				policySet[policyManualSkip] = true
				continue
			}

			needed := st.RequiredCount - ledger.slotCount(st.ShiftTypeID, date)
			for unit := 0; unit < needed; unit++ {
				pool := s.buildPool(roster, &st, date, req.Demo, ledger, availIndex)
				if len(pool) == 0 {
					unfilled += needed - unit
					break
				}
				policySet[policyAvailability] = true

				// 3.  警官约束
				if st.OfficerRequired {
					officers := filterOfficers(pool, req.Demo)
					if len(officers) > 0 {
						pool = officers
						policySet[policyOfficerRequired] = true
					} else {
						policySet[policyOfficerFallback] = true
						warnings = append(warnings, fmt.Sprintf(
							"%s %s 需警官在岗但无警官候选，已降级为普通候选池", st.Name, dayKey(date)))
					}
				}

				// 4/5. 均衡轮换 + 资历决胜
				month := monthKey(date)
				sort.SliceStable(pool, func(i, j int) bool {
					hi := ledger.hours(pool[i].UserID, month)
					hj := ledger.hours(pool[j].UserID, month)
					if hi != hj {
						return hi < hj
					}
					if !pool[i].HireDate.Equal(pool[j].HireDate) {
						policySet[policySeniorityBreak] = true
						return pool[i].HireDate.Before(pool[j].HireDate)
					}
					return rosterOrder[pool[i].UserID] < rosterOrder[pool[j].UserID]
				})
				policySet[policyEquityRotation] = true

				chosen := pool[0]
				a := model.Assignment{
					UserID:      chosen.UserID,
					ShiftTypeID: st.ShiftTypeID,
					Date:        date,
					Origin:      origin,
					Status:      model.AssignmentPlanned,
				}
				a.CreatedBy = &callerID
				a.UpdatedBy = &callerID
				created = append(created, a)

				// 选中即时更新运行台账，后续槽位看到新工时
				ledger.occupy(chosen.UserID, date)
				ledger.fillSlot(st.ShiftTypeID, date)
				ledger.addHours(chosen.UserID, date, float64(shiftHours[st.ShiftTypeID]))
			}
		}
	}

	// ── 阶段4: 不变量自检 + 整批落库 ──

	if err := verifyInvariants(created, weekAssignments, shiftTypes); err != nil {
		s.logger.Error("分配结果未通过不变量自检，放弃写入",
			zap.Error(err), zap.String("week_start", weekStart.Format("2006-01-02")))
		return nil, ErrInvariantViolation
	}

	if err := s.repo.Assignment.BatchCreate(ctx, created); err != nil {
		s.logger.Error("批量写入排班失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("自动分配完成",
		zap.String("week_start", weekStart.Format("2006-01-02")),
		zap.Int("created", len(created)),
		zap.Int("unfilled", unfilled),
		zap.Bool("demo", req.Demo))

	return &dto.AttributionResponse{
		WeekStart:  weekStart.Format("2006-01-02"),
		WeekEnd:    weekEnd.Format("2006-01-02"),
		Created:    len(created),
		SlotsTotal: slotsTotal,
		Unfilled:   unfilled,
		Policy:     sortedKeys(policySet),
		Warnings:   warnings,
	}, nil
}

func (s *attributionService) ResetWeek(ctx context.Context, weekStartStr string) (*dto.ResetResponse, error) {
	weekStart, err := time.Parse("2006-01-02", weekStartStr)
	if err != nil {
		return nil, ErrInvalidWeekStart
	}
	weekStart = mondayOf(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	// 与自动分配共用周锁，避免一边清一边排
	release, err := s.lockWeek(ctx, weekStart.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer release()

	var deleted int64
	for _, origin := range []string{model.OriginAuto, model.OriginAutoDemo} {
		n, err := s.repo.Assignment.DeleteByOriginAndDateRange(ctx, origin, weekStart, weekEnd)
		if err != nil {
			s.logger.Error("清除自动排班失败", zap.Error(err), zap.String("origin", origin))
			return nil, err
		}
		deleted += n
	}

	s.logger.Info("周计划已重置",
		zap.String("week_start", weekStart.Format("2006-01-02")),
		zap.Int64("deleted", deleted))

	return &dto.ResetResponse{
		WeekStart: weekStart.Format("2006-01-02"),
		WeekEnd:   weekEnd.Format("2006-01-02"),
		Deleted:   int(deleted),
	}, nil
}

// buildPool 构建某槽位的候选池（花名册顺序稳定）
// 标准模式只取兼职且当日有匹配申报；演示模式放开全职（全职免申报），
// 兼职仍需申报匹配
func (s *attributionService) buildPool(
	roster []model.User,
	st *model.ShiftType,
	date time.Time,
	demo bool,
	ledger *runLedger,
	availIndex map[string][]model.Availability,
) []model.User {
	var pool []model.User
	for _, u := range roster {
		if !demo && u.EmploymentType != model.EmploymentPartTime {
			continue
		}
		// 同日不重班（对任意班次）
		if ledger.occupied(u.UserID, date) {
			continue
		}
		if u.EmploymentType == model.EmploymentPartTime {
			if !hasMatchingAvailability(availIndex[u.UserID+":"+dayKey(date)], st.ShiftTypeID) {
				continue
			}
		}
		pool = append(pool, u)
	}
	return pool
}

// filterOfficers 取警官候选
// 标准模式下警官 = 尉官及以上或代理警官；演示模式按 职级警官 → 代理警官 逐级放宽
func filterOfficers(pool []model.User, demo bool) []model.User {
	var ranked, acting []model.User
	for _, u := range pool {
		switch {
		case u.IsOfficer():
			ranked = append(ranked, u)
		case u.ActingOfficer:
			acting = append(acting, u)
		}
	}
	if demo {
		if len(ranked) > 0 {
			return ranked
		}
		return acting
	}
	return append(ranked, acting...)
}

// hasMatchingAvailability 判断当日申报是否覆盖指定班次
func hasMatchingAvailability(avails []model.Availability, shiftTypeID string) bool {
	for i := range avails {
		if avails[i].MatchesShiftType(shiftTypeID) {
			return true
		}
	}
	return false
}

// verifyInvariants 落库前自检：同人同日至多一班、同槽位不超编
// 违反即视为内部缺陷，整次运行放弃（不做部分提交）
func verifyInvariants(created, existing []model.Assignment, shiftTypes []model.ShiftType) error {
	required := make(map[string]int, len(shiftTypes))
	for _, st := range shiftTypes {
		required[st.ShiftTypeID] = st.RequiredCount
	}

	userDay := make(map[string]bool)
	slotCount := make(map[string]int)
	for _, a := range existing {
		userDay[a.UserID+":"+dayKey(a.Date)] = true
		slotCount[a.ShiftTypeID+":"+dayKey(a.Date)]++
	}
	for _, a := range created {
		udKey := a.UserID + ":" + dayKey(a.Date)
		if userDay[udKey] {
			return fmt.Errorf("同日重班: user=%s date=%s", a.UserID, dayKey(a.Date))
		}
		userDay[udKey] = true

		scKey := a.ShiftTypeID + ":" + dayKey(a.Date)
		slotCount[scKey]++
		if slotCount[scKey] > required[a.ShiftTypeID] {
			return fmt.Errorf("槽位超编: shift_type=%s date=%s", a.ShiftTypeID, dayKey(a.Date))
		}
	}
	return nil
}

// lockWeek 获取周锁；Redis 不可用时退化为进程内互斥
func (s *attributionService) lockWeek(ctx context.Context, weekStart string) (func(), error) {
	if s.rdb == nil {
		s.localMu.Lock()
		return s.localMu.Unlock, nil
	}
	ok, err := s.rdb.AcquireWeekLock(ctx, weekStart, s.cfg.WeekLockTTL)
	if err != nil {
		s.logger.Warn("获取周锁失败，退化为进程内互斥", zap.Error(err))
		s.localMu.Lock()
		return s.localMu.Unlock, nil
	}
	if !ok {
		return nil, pkgerrors.ErrWeekLocked
	}
	return func() {
		if err := s.rdb.ReleaseWeekLock(context.Background(), weekStart); err != nil {
			s.logger.Warn("释放周锁失败", zap.Error(err))
		}
	}, nil
}

// ── 运行台账 ──

// runLedger 单次分配运行的内存状态
// 周内占位、槽位计数与月度工时全部在内存中推进，避免一边写库一边查库
type runLedger struct {
	userDay    map[string]bool    // userID:date → 当日已排
	slots      map[string]int     // shiftTypeID:date → 已排人数
	manual     map[string]bool    // shiftTypeID:date → 存在人工排班
	monthHours map[string]float64 // userID:YYYY-MM → 累计工时
}

func newRunLedger() *runLedger {
	return &runLedger{
		userDay:    make(map[string]bool),
		slots:      make(map[string]int),
		manual:     make(map[string]bool),
		monthHours: make(map[string]float64),
	}
}

func (l *runLedger) occupy(userID string, date time.Time) {
	l.userDay[userID+":"+dayKey(date)] = true
}

func (l *runLedger) occupied(userID string, date time.Time) bool {
	return l.userDay[userID+":"+dayKey(date)]
}

func (l *runLedger) fillSlot(shiftTypeID string, date time.Time) {
	l.slots[shiftTypeID+":"+dayKey(date)]++
}

func (l *runLedger) slotCount(shiftTypeID string, date time.Time) int {
	return l.slots[shiftTypeID+":"+dayKey(date)]
}

func (l *runLedger) markManual(shiftTypeID string, date time.Time) {
	l.manual[shiftTypeID+":"+dayKey(date)] = true
}

func (l *runLedger) hasManual(shiftTypeID string, date time.Time) bool {
	return l.manual[shiftTypeID+":"+dayKey(date)]
}

func (l *runLedger) addHours(userID string, date time.Time, hours float64) {
	l.monthHours[userID+":"+monthKey(date)] += hours
}

func (l *runLedger) hours(userID string, month string) float64 {
	return l.monthHours[userID+":"+month]
}

// ── 日期工具 ──

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// mondayOf 返回所在周的周一（零点，保留时区）
func mondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// weekdayName 返回小写英文星期名（monday..sunday）
func weekdayName(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"profiremanager/backend/config"
	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
)

// ── 测试辅助 ──

func mkDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2026-03-02 是周一，本文件统一以该周为分配目标
const testWeekStart = "2026-03-02"

func setupTestAttributionService() (AttributionService, *mockRepos) {
	repo, m := newMockRepository()
	cfg := &config.ScheduleConfig{
		WeekLockTTL:       time.Minute,
		DefaultShiftHours: 8,
	}
	svc := NewAttributionService(repo, nil, cfg, zap.NewNop())
	return svc, m
}

func addUser(t *testing.T, m *mockRepos, u *model.User) *model.User {
	t.Helper()
	if u.Status == "" {
		u.Status = model.StatusActive
	}
	if u.Grade == "" {
		u.Grade = model.GradeFirefighter
	}
	if u.HireDate.IsZero() {
		u.HireDate = mkDate(2020, 1, 1)
	}
	if err := m.users.Create(context.Background(), u); err != nil {
		t.Fatalf("创建测试人员失败: %v", err)
	}
	return u
}

func addShiftType(t *testing.T, m *mockRepos, st *model.ShiftType) *model.ShiftType {
	t.Helper()
	if st.DurationHours == 0 {
		st.DurationHours = 8
	}
	if err := m.shiftTypes.Create(context.Background(), st); err != nil {
		t.Fatalf("创建测试班次失败: %v", err)
	}
	return st
}

// addAvail 为某人某日申报可用（不限班次）
func addAvail(t *testing.T, m *mockRepos, userID string, date time.Time) {
	t.Helper()
	err := m.avail.Create(context.Background(), &model.Availability{
		UserID: userID,
		Date:   date,
		Status: model.AvailabilityAvailable,
	})
	if err != nil {
		t.Fatalf("创建测试申报失败: %v", err)
	}
}

func addAssignment(t *testing.T, m *mockRepos, userID, shiftTypeID string, date time.Time, origin string) {
	t.Helper()
	err := m.assignments.Create(context.Background(), &model.Assignment{
		UserID:      userID,
		ShiftTypeID: shiftTypeID,
		Date:        date,
		Origin:      origin,
		Status:      model.AssignmentPlanned,
	})
	if err != nil {
		t.Fatalf("创建测试排班失败: %v", err)
	}
}

func containsPolicy(policies []string, want string) bool {
	for _, p := range policies {
		if p == want {
			return true
		}
	}
	return false
}

// ── 基本填充 ──

func TestAttributionService_Run_FillsSlotFromAvailablePartTimer(t *testing.T) {
	svc, m := setupTestAttributionService()

	u := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, u.UserID, mkDate(2026, 3, 2))

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("期望创建1条排班，实际=%d", result.Created)
	}
	if result.SlotsTotal != 1 || result.Unfilled != 0 {
		t.Errorf("期望 SlotsTotal=1 Unfilled=0，实际=%d/%d", result.SlotsTotal, result.Unfilled)
	}
	a := m.assignments.assignments[0]
	if a.UserID != u.UserID || a.ShiftTypeID != st.ShiftTypeID {
		t.Errorf("排班归属错误: user=%s shift=%s", a.UserID, a.ShiftTypeID)
	}
	if a.Origin != model.OriginAuto {
		t.Errorf("期望 origin=auto，实际=%s", a.Origin)
	}
	if !containsPolicy(result.Policy, "availability-pool") {
		t.Errorf("期望规则叙述包含 availability-pool，实际=%v", result.Policy)
	}
}

func TestAttributionService_Run_StandardModeExcludesFullTime(t *testing.T) {
	svc, m := setupTestAttributionService()

	// 全职即便有申报也不进标准模式候选池
	u := addUser(t, m, &model.User{FirstName: "Julie", LastName: "Roy", EmploymentType: model.EmploymentFullTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, u.UserID, mkDate(2026, 3, 2))

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("标准模式不应选中全职，实际创建=%d", result.Created)
	}
	if result.Unfilled != 1 {
		t.Errorf("期望 Unfilled=1，实际=%d", result.Unfilled)
	}
}

func TestAttributionService_Run_DemoModeIncludesFullTimeWithoutAvailability(t *testing.T) {
	svc, m := setupTestAttributionService()

	u := addUser(t, m, &model.User{FirstName: "Julie", LastName: "Roy", EmploymentType: model.EmploymentFullTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart, Demo: true}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("演示模式应选中免申报的全职，实际创建=%d", result.Created)
	}
	if m.assignments.assignments[0].Origin != model.OriginAutoDemo {
		t.Errorf("期望 origin=auto_demo，实际=%s", m.assignments.assignments[0].Origin)
	}
	if m.assignments.assignments[0].UserID != u.UserID {
		t.Errorf("选中人员错误: %s", m.assignments.assignments[0].UserID)
	}
}

func TestAttributionService_Run_DemoModePartTimeStillNeedsAvailability(t *testing.T) {
	svc, m := setupTestAttributionService()

	// 演示模式只放宽全职，兼职仍需申报匹配
	addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart, Demo: true}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("无申报的兼职不应被选中，实际创建=%d", result.Created)
	}
}

func TestAttributionService_Run_PreferredDeclarationDoesNotQualify(t *testing.T) {
	svc, m := setupTestAttributionService()

	// preferred 只是偏好标记，不等于当日可用
	u := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	err := m.avail.Create(context.Background(), &model.Availability{
		UserID: u.UserID,
		Date:   mkDate(2026, 3, 2),
		Status: model.AvailabilityPreferred,
	})
	if err != nil {
		t.Fatalf("创建测试申报失败: %v", err)
	}

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("仅有 preferred 申报的人员不应被选中，实际创建=%d", result.Created)
	}
	if result.Unfilled != 1 {
		t.Errorf("期望 Unfilled=1，实际=%d", result.Unfilled)
	}
}

// ── 人工意图优先 ──

func TestAttributionService_Run_ManualAssignmentSkipsSlot(t *testing.T) {
	svc, m := setupTestAttributionService()

	manual := addUser(t, m, &model.User{FirstName: "Luc", LastName: "Gagnon", EmploymentType: model.EmploymentPartTime})
	spare := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 2, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, spare.UserID, mkDate(2026, 3, 2))
	// 手动排班占位后，即便还有编制缺口也整槽跳过
	addAssignment(t, m, manual.UserID, st.ShiftTypeID, mkDate(2026, 3, 2), model.OriginManual)

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("手动占位的槽位不应自动补齐，实际创建=%d", result.Created)
	}
	if !containsPolicy(result.Policy, "manual-skip") {
		t.Errorf("期望规则叙述包含 manual-skip，实际=%v", result.Policy)
	}
}

func TestAttributionService_Run_ManualRecurringAlsoSkips(t *testing.T) {
	svc, m := setupTestAttributionService()

	manual := addUser(t, m, &model.User{FirstName: "Luc", LastName: "Gagnon", EmploymentType: model.EmploymentPartTime})
	spare := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 2, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, spare.UserID, mkDate(2026, 3, 2))
	addAssignment(t, m, manual.UserID, st.ShiftTypeID, mkDate(2026, 3, 2), model.OriginManualRecurring)

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("重复手动排班同样视为人工意图，实际创建=%d", result.Created)
	}
}

// ── 排班不变量 ──

func TestAttributionService_Run_NoDoubleBookingAcrossShiftTypes(t *testing.T) {
	svc, m := setupTestAttributionService()

	u := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addShiftType(t, m, &model.ShiftType{Name: "nuit", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, u.UserID, mkDate(2026, 3, 2))

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	// 唯一候选人只能排入一个班次，另一槽位缺口
	if result.Created != 1 {
		t.Errorf("同人同日至多一班，期望创建1条，实际=%d", result.Created)
	}
	if result.Unfilled != 1 {
		t.Errorf("期望 Unfilled=1，实际=%d", result.Unfilled)
	}
}

func TestAttributionService_Run_RespectsHeadcountOfExistingAuto(t *testing.T) {
	svc, m := setupTestAttributionService()

	a := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	b := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 2, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, a.UserID, mkDate(2026, 3, 2))
	addAvail(t, m, b.UserID, mkDate(2026, 3, 2))
	// 前次运行已占一个编制
	addAssignment(t, m, a.UserID, st.ShiftTypeID, mkDate(2026, 3, 2), model.OriginAuto)

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("只剩1个编制缺口，期望创建1条，实际=%d", result.Created)
	}
	if m.assignments.assignments[1].UserID != b.UserID {
		t.Errorf("已占位人员不应重复选中，实际=%s", m.assignments.assignments[1].UserID)
	}
}

func TestAttributionService_Run_SecondRunIsNoop(t *testing.T) {
	svc, m := setupTestAttributionService()

	u := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, u.UserID, mkDate(2026, 3, 2))

	if _, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001"); err != nil {
		t.Fatalf("首次 Run 应成功: %v", err)
	}
	second, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("二次 Run 应成功: %v", err)
	}
	if second.Created != 0 || second.Unfilled != 0 {
		t.Errorf("槽位已满的重复运行应为空操作，实际 Created=%d Unfilled=%d", second.Created, second.Unfilled)
	}
	if len(m.assignments.assignments) != 1 {
		t.Errorf("台账不应出现重复排班，实际=%d条", len(m.assignments.assignments))
	}
}

// ── 均衡轮换与决胜 ──

func TestAttributionService_Run_PicksLowestMonthlyHours(t *testing.T) {
	svc, m := setupTestAttributionService()

	busy := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	idle := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, busy.UserID, mkDate(2026, 3, 2))
	addAvail(t, m, idle.UserID, mkDate(2026, 3, 2))
	// busy 本月已有 16 小时（目标周之外，但同属 3 月）
	addAssignment(t, m, busy.UserID, st.ShiftTypeID, mkDate(2026, 3, 16), model.OriginAuto)
	addAssignment(t, m, busy.UserID, st.ShiftTypeID, mkDate(2026, 3, 17), model.OriginAuto)

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("期望创建1条，实际=%d", result.Created)
	}
	chosen := m.assignments.assignments[len(m.assignments.assignments)-1]
	if chosen.UserID != idle.UserID {
		t.Errorf("应选中当月工时更低者，实际=%s", chosen.UserID)
	}
}

func TestAttributionService_Run_HoursAccumulateWithinRun(t *testing.T) {
	svc, m := setupTestAttributionService()

	a := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	b := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday", "tuesday"}})
	for _, d := range []int{2, 3} {
		addAvail(t, m, a.UserID, mkDate(2026, 3, d))
		addAvail(t, m, b.UserID, mkDate(2026, 3, d))
	}

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("期望创建2条，实际=%d", result.Created)
	}
	// 周一选中者工时上升，周二轮到另一人
	if m.assignments.assignments[0].UserID == m.assignments.assignments[1].UserID {
		t.Errorf("运行内工时应即时累加并轮换人选，实际两日均为 %s", m.assignments.assignments[0].UserID)
	}
}

func TestAttributionService_Run_SeniorityBreaksHoursTie(t *testing.T) {
	svc, m := setupTestAttributionService()

	// junior 先进花名册，但 senior 入职更早，工时持平时 senior 胜出
	junior := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime, HireDate: mkDate(2021, 6, 1)})
	senior := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime, HireDate: mkDate(2014, 2, 1)})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, junior.UserID, mkDate(2026, 3, 2))
	addAvail(t, m, senior.UserID, mkDate(2026, 3, 2))

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if m.assignments.assignments[0].UserID != senior.UserID {
		t.Errorf("工时持平应选入职更早者，实际=%s", m.assignments.assignments[0].UserID)
	}
	if !containsPolicy(result.Policy, "seniority-tie-break") {
		t.Errorf("期望规则叙述包含 seniority-tie-break，实际=%v", result.Policy)
	}
}

func TestAttributionService_Run_RosterOrderIsFinalTieBreak(t *testing.T) {
	svc, m := setupTestAttributionService()

	hire := mkDate(2018, 5, 1)
	first := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime, HireDate: hire})
	second := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime, HireDate: hire})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, first.UserID, mkDate(2026, 3, 2))
	addAvail(t, m, second.UserID, mkDate(2026, 3, 2))

	if _, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001"); err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if m.assignments.assignments[0].UserID != first.UserID {
		t.Errorf("工时与入职日期全同时应按花名册顺序，实际=%s", m.assignments.assignments[0].UserID)
	}
}

// ── 警官约束 ──

func TestAttributionService_Run_OfficerRequiredPrefersOfficer(t *testing.T) {
	svc, m := setupTestAttributionService()

	// 警官工时更高，但警官约束优先于均衡轮换
	officer := addUser(t, m, &model.User{FirstName: "Anne", LastName: "Dubois", Grade: model.GradeLieutenant, EmploymentType: model.EmploymentPartTime})
	plain := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, OfficerRequired: true, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, officer.UserID, mkDate(2026, 3, 2))
	addAvail(t, m, plain.UserID, mkDate(2026, 3, 2))
	addAssignment(t, m, officer.UserID, st.ShiftTypeID, mkDate(2026, 3, 16), model.OriginAuto)

	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	chosen := m.assignments.assignments[len(m.assignments.assignments)-1]
	if chosen.UserID != officer.UserID {
		t.Errorf("警官必到班次应选警官，实际=%s", chosen.UserID)
	}
	if !containsPolicy(result.Policy, "officer-constraint") {
		t.Errorf("期望规则叙述包含 officer-constraint，实际=%v", result.Policy)
	}
}

func TestAttributionService_Run_ActingOfficerSatisfiesConstraint(t *testing.T) {
	svc, m := setupTestAttributionService()

	acting := addUser(t, m, &model.User{FirstName: "Paul", LastName: "Morin", ActingOfficer: true, EmploymentType: model.EmploymentPartTime})
	plain := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, OfficerRequired: true, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, acting.UserID, mkDate(2026, 3, 2))
	addAvail(t, m, plain.UserID, mkDate(2026, 3, 2))

	if _, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001"); err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if m.assignments.assignments[0].UserID != acting.UserID {
		t.Errorf("代理警官应满足警官约束，实际=%s", m.assignments.assignments[0].UserID)
	}
}

func TestAttributionService_Run_OfficerFallbackWhenNoneAvailable(t *testing.T) {
	svc, m := setupTestAttributionService()

	// 全职队长不进标准候选池；两名兼职消防员兜底补齐，工时低者在前
	addUser(t, m, &model.User{FirstName: "Jean", LastName: "Lavoie", Grade: model.GradeCaptain, EmploymentType: model.EmploymentFullTime})
	heavy := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	light := addUser(t, m, &model.User{FirstName: "Eve", LastName: "Cote", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 2, OfficerRequired: true, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, heavy.UserID, mkDate(2026, 3, 2))
	addAvail(t, m, light.UserID, mkDate(2026, 3, 2))
	// heavy 本月 40h，light 16h
	for _, d := range []int{16, 17, 18, 19, 20} {
		addAssignment(t, m, heavy.UserID, st.ShiftTypeID, mkDate(2026, 3, d), model.OriginAuto)
	}
	for _, d := range []int{16, 17} {
		addAssignment(t, m, light.UserID, st.ShiftTypeID, mkDate(2026, 3, d), model.OriginAuto)
	}

	before := len(m.assignments.assignments)
	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("期望两个编制都补齐，实际=%d", result.Created)
	}
	if !containsPolicy(result.Policy, "officer-fallback") {
		t.Errorf("期望规则叙述包含 officer-fallback，实际=%v", result.Policy)
	}
	if len(result.Warnings) == 0 {
		t.Error("警官兜底应产生告警")
	}
	created := m.assignments.assignments[before:]
	if created[0].UserID != light.UserID {
		t.Errorf("工时更低者应先被选中，实际=%s", created[0].UserID)
	}
	if created[1].UserID != heavy.UserID {
		t.Errorf("第二个编制应选剩余候选人，实际=%s", created[1].UserID)
	}
}

func TestAttributionService_Run_DemoOfficerTieringPrefersRanked(t *testing.T) {
	svc, m := setupTestAttributionService()

	acting := addUser(t, m, &model.User{FirstName: "Paul", LastName: "Morin", ActingOfficer: true, EmploymentType: model.EmploymentFullTime})
	ranked := addUser(t, m, &model.User{FirstName: "Anne", LastName: "Dubois", Grade: model.GradeLieutenant, EmploymentType: model.EmploymentFullTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, OfficerRequired: true, ApplyDays: model.StringArray{"monday"}})
	// 职级警官工时更高，演示模式分层仍优先职级警官
	addAssignment(t, m, ranked.UserID, st.ShiftTypeID, mkDate(2026, 3, 16), model.OriginAuto)
	_ = acting

	if _, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart, Demo: true}, "admin-001"); err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	chosen := m.assignments.assignments[len(m.assignments.assignments)-1]
	if chosen.UserID != ranked.UserID {
		t.Errorf("演示模式应优先职级警官，实际=%s", chosen.UserID)
	}
}

// ── 边界与防御 ──

func TestAttributionService_Run_InvalidWeekStart(t *testing.T) {
	svc, _ := setupTestAttributionService()

	_, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: "03/02/2026"}, "admin-001")
	if !errors.Is(err, ErrInvalidWeekStart) {
		t.Errorf("期望 ErrInvalidWeekStart，实际: %v", err)
	}
}

func TestAttributionService_Run_NoShiftTypes(t *testing.T) {
	svc, m := setupTestAttributionService()
	addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})

	_, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if !errors.Is(err, ErrNoShiftTypes) {
		t.Errorf("期望 ErrNoShiftTypes，实际: %v", err)
	}
}

func TestAttributionService_Run_NormalizesToMonday(t *testing.T) {
	svc, m := setupTestAttributionService()
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})

	// 传入周三，归一化到该周周一
	result, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: "2026-03-04"}, "admin-001")
	if err != nil {
		t.Fatalf("Run 应成功: %v", err)
	}
	if result.WeekStart != "2026-03-02" {
		t.Errorf("期望归一化到 2026-03-02，实际=%s", result.WeekStart)
	}
	if result.WeekEnd != "2026-03-08" {
		t.Errorf("期望周日为 2026-03-08，实际=%s", result.WeekEnd)
	}
}

func TestAttributionService_Run_BatchFailureWritesNothing(t *testing.T) {
	svc, m := setupTestAttributionService()

	u := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 1, ApplyDays: model.StringArray{"monday"}})
	addAvail(t, m, u.UserID, mkDate(2026, 3, 2))
	m.assignments.batchErr = errors.New("connection reset")

	_, err := svc.Run(context.Background(), &dto.AttributionRequest{WeekStart: testWeekStart}, "admin-001")
	if err == nil {
		t.Fatal("批量写入失败应返回错误")
	}
	if len(m.assignments.assignments) != 0 {
		t.Errorf("失败的运行不应留下部分排班，实际=%d条", len(m.assignments.assignments))
	}
}

func TestAttributionService_ResetWeek_RemovesOnlyAutoAssignments(t *testing.T) {
	svc, m := setupTestAttributionService()

	u := addUser(t, m, &model.User{FirstName: "Marc", LastName: "Tremblay", EmploymentType: model.EmploymentPartTime})
	st := addShiftType(t, m, &model.ShiftType{Name: "jour", RequiredCount: 2, ApplyDays: model.StringArray{"monday"}})

	addAssignment(t, m, u.UserID, st.ShiftTypeID, mkDate(2026, 3, 2), model.OriginAuto)
	addAssignment(t, m, u.UserID, st.ShiftTypeID, mkDate(2026, 3, 3), model.OriginAutoDemo)
	addAssignment(t, m, u.UserID, st.ShiftTypeID, mkDate(2026, 3, 4), model.OriginManual)
	// 周外的自动排班不受影响
	addAssignment(t, m, u.UserID, st.ShiftTypeID, mkDate(2026, 3, 9), model.OriginAuto)

	result, err := svc.ResetWeek(context.Background(), testWeekStart)
	if err != nil {
		t.Fatalf("ResetWeek 应成功: %v", err)
	}
	if result.Deleted != 2 {
		t.Errorf("期望清除2条自动排班，实际=%d", result.Deleted)
	}
	if len(m.assignments.assignments) != 2 {
		t.Errorf("手动排班与周外排班应保留，实际剩余=%d条", len(m.assignments.assignments))
	}
	for _, a := range m.assignments.assignments {
		if a.Origin != model.OriginManual && !sameDay(a.Date, mkDate(2026, 3, 9)) {
			t.Errorf("不应清除的排班被删除: origin=%s date=%s", a.Origin, a.Date.Format("2006-01-02"))
		}
	}
}

func TestAttributionService_ResetWeek_InvalidDate(t *testing.T) {
	svc, _ := setupTestAttributionService()

	_, err := svc.ResetWeek(context.Background(), "03/02/2026")
	if !errors.Is(err, ErrInvalidWeekStart) {
		t.Errorf("期望 ErrInvalidWeekStart，实际: %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
	pkgerrors "profiremanager/backend/pkg/errors"
)

// sameDay 判断两个时间是否为同一天（忽略时分秒）
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

// ── Mock UserRepository ──

// 保留插入顺序，ListActive 的稳定排列是排班兜底平局规则的前提
type mockUserRepo struct {
	users map[string]*model.User
	order []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", len(m.order)+1)
	}
	m.users[user.UserID] = user
	m.order = append(m.order, user.UserID)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, id := range m.order {
		if m.users[id].Email == email {
			return m.users[id], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, id := range m.order {
		if u, ok := m.users[id]; ok {
			all = append(all, *u)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListActive(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, id := range m.order {
		if u, ok := m.users[id]; ok && u.IsActive() {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock TrainingRepository ──

type mockTrainingRepo struct {
	trainings map[string]*model.Training
	order     []string
}

func newMockTrainingRepo() *mockTrainingRepo {
	return &mockTrainingRepo{trainings: make(map[string]*model.Training)}
}

func (m *mockTrainingRepo) Create(_ context.Context, training *model.Training) error {
	if training.TrainingID == "" {
		training.TrainingID = "tr-" + training.Name
	}
	m.trainings[training.TrainingID] = training
	m.order = append(m.order, training.TrainingID)
	return nil
}

func (m *mockTrainingRepo) GetByID(_ context.Context, id string) (*model.Training, error) {
	if t, ok := m.trainings[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingRepo) Update(_ context.Context, training *model.Training) error {
	m.trainings[training.TrainingID] = training
	return nil
}

func (m *mockTrainingRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.trainings, id)
	return nil
}

func (m *mockTrainingRepo) List(_ context.Context) ([]model.Training, error) {
	var result []model.Training
	for _, id := range m.order {
		if t, ok := m.trainings[id]; ok {
			result = append(result, *t)
		}
	}
	return result, nil
}

// ── Mock ShiftTypeRepository ──

type mockShiftTypeRepo struct {
	shiftTypes map[string]*model.ShiftType
	order      []string
}

func newMockShiftTypeRepo() *mockShiftTypeRepo {
	return &mockShiftTypeRepo{shiftTypes: make(map[string]*model.ShiftType)}
}

func (m *mockShiftTypeRepo) Create(_ context.Context, shiftType *model.ShiftType) error {
	if shiftType.ShiftTypeID == "" {
		shiftType.ShiftTypeID = "st-" + shiftType.Name
	}
	m.shiftTypes[shiftType.ShiftTypeID] = shiftType
	m.order = append(m.order, shiftType.ShiftTypeID)
	return nil
}

func (m *mockShiftTypeRepo) GetByID(_ context.Context, id string) (*model.ShiftType, error) {
	if st, ok := m.shiftTypes[id]; ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftTypeRepo) Update(_ context.Context, shiftType *model.ShiftType) error {
	m.shiftTypes[shiftType.ShiftTypeID] = shiftType
	return nil
}

func (m *mockShiftTypeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.shiftTypes, id)
	return nil
}

func (m *mockShiftTypeRepo) List(_ context.Context) ([]model.ShiftType, error) {
	var result []model.ShiftType
	for _, id := range m.order {
		if st, ok := m.shiftTypes[id]; ok {
			result = append(result, *st)
		}
	}
	return result, nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	availabilities []*model.Availability
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{}
}

func (m *mockAvailabilityRepo) Create(_ context.Context, availability *model.Availability) error {
	if availability.AvailabilityID == "" {
		availability.AvailabilityID = fmt.Sprintf("av-%03d", len(m.availabilities)+1)
	}
	m.availabilities = append(m.availabilities, availability)
	return nil
}

func (m *mockAvailabilityRepo) GetByID(_ context.Context, id string) (*model.Availability, error) {
	for _, a := range m.availabilities {
		if a.AvailabilityID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAvailabilityRepo) Delete(_ context.Context, id string) error {
	for i, a := range m.availabilities {
		if a.AvailabilityID == id {
			m.availabilities = append(m.availabilities[:i], m.availabilities[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockAvailabilityRepo) ListByUser(_ context.Context, userID string, from, to time.Time) ([]model.Availability, error) {
	var result []model.Availability
	for _, a := range m.availabilities {
		if a.UserID == userID && inRange(a.Date, from, to) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]model.Availability, error) {
	var result []model.Availability
	for _, a := range m.availabilities {
		if a.Status != model.AvailabilityAvailable {
			continue
		}
		if inRange(a.Date, from, to) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) ReplaceForUser(ctx context.Context, userID string, from, to time.Time, items []model.Availability) error {
	var kept []*model.Availability
	for _, a := range m.availabilities {
		if a.UserID == userID && inRange(a.Date, from, to) {
			continue
		}
		kept = append(kept, a)
	}
	m.availabilities = kept
	for i := range items {
		item := items[i]
		if err := m.Create(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments []*model.Assignment
	// 计算工时需要班次时长，与 mockShiftTypeRepo 共享数据
	shiftTypes *mockShiftTypeRepo
	batchErr   error // 注入 BatchCreate 失败
}

func newMockAssignmentRepo(shiftTypes *mockShiftTypeRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{shiftTypes: shiftTypes}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = fmt.Sprintf("as-%03d", len(m.assignments)+1)
	}
	m.assignments = append(m.assignments, assignment)
	return nil
}

func (m *mockAssignmentRepo) BatchCreate(ctx context.Context, assignments []model.Assignment) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for i := range assignments {
		a := assignments[i]
		if err := m.Create(ctx, &a); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	for _, a := range m.assignments {
		if a.AssignmentID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id string, status string) error {
	for _, a := range m.assignments {
		if a.AssignmentID == id {
			a.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Reassign(_ context.Context, id string, newUserID string) error {
	for _, a := range m.assignments {
		if a.AssignmentID == id {
			a.UserID = newUserID
			a.Status = model.AssignmentPlanned
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	for i, a := range m.assignments {
		if a.AssignmentID == id {
			m.assignments = append(m.assignments[:i], m.assignments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if inRange(a.Date, from, to) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByUserAndDateRange(_ context.Context, userID string, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.UserID == userID && inRange(a.Date, from, to) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) FindByUserShiftDate(_ context.Context, userID, shiftTypeID string, date time.Time) (*model.Assignment, error) {
	for _, a := range m.assignments {
		if a.UserID == userID && a.ShiftTypeID == shiftTypeID && sameDay(a.Date, date) {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) SumHoursByUser(_ context.Context, from, to time.Time) (map[string]float64, error) {
	result := make(map[string]float64)
	for _, a := range m.assignments {
		if !inRange(a.Date, from, to) {
			continue
		}
		hours := 8.0
		if m.shiftTypes != nil {
			if st, ok := m.shiftTypes.shiftTypes[a.ShiftTypeID]; ok {
				hours = float64(st.DurationHours)
			}
		}
		result[a.UserID] += hours
	}
	return result, nil
}

func (m *mockAssignmentRepo) DeleteByOriginAndDateRange(_ context.Context, origin string, from, to time.Time) (int64, error) {
	var kept []*model.Assignment
	var deleted int64
	for _, a := range m.assignments {
		if a.Origin == origin && inRange(a.Date, from, to) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	m.assignments = kept
	return deleted, nil
}

// ── Mock ReplacementRequestRepository ──

type mockReplacementRequestRepo struct {
	requests map[string]*model.ReplacementRequest
	order    []string
}

func newMockReplacementRequestRepo() *mockReplacementRequestRepo {
	return &mockReplacementRequestRepo{requests: make(map[string]*model.ReplacementRequest)}
}

func (m *mockReplacementRequestRepo) Create(_ context.Context, request *model.ReplacementRequest) error {
	if request.RequestID == "" {
		request.RequestID = fmt.Sprintf("req-%03d", len(m.order)+1)
	}
	clone := *request
	m.requests[request.RequestID] = &clone
	m.order = append(m.order, request.RequestID)
	return nil
}

// GetByID 返回副本，模拟真实仓储每次查询产生独立实体
func (m *mockReplacementRequestRepo) GetByID(_ context.Context, id string) (*model.ReplacementRequest, error) {
	if r, ok := m.requests[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReplacementRequestRepo) UpdateResolved(_ context.Context, request *model.ReplacementRequest) error {
	stored, ok := m.requests[request.RequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != request.Version {
		return pkgerrors.ErrOptimisticLock
	}
	clone := *request
	clone.Version++
	m.requests[request.RequestID] = &clone
	request.Version++
	return nil
}

func (m *mockReplacementRequestRepo) List(_ context.Context, status string, offset, limit int) ([]model.ReplacementRequest, int64, error) {
	var all []model.ReplacementRequest
	for _, id := range m.order {
		r := m.requests[id]
		if status != "" && r.Status != status {
			continue
		}
		all = append(all, *r)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockReplacementRequestRepo) ListByRequester(_ context.Context, requesterID string) ([]model.ReplacementRequest, error) {
	var result []model.ReplacementRequest
	for _, id := range m.order {
		if m.requests[id].RequesterID == requesterID {
			result = append(result, *m.requests[id])
		}
	}
	return result, nil
}

// ── Mock ReplacementNoticeRepository ──

type mockReplacementNoticeRepo struct {
	notices []*model.ReplacementNotice
}

func newMockReplacementNoticeRepo() *mockReplacementNoticeRepo {
	return &mockReplacementNoticeRepo{}
}

func (m *mockReplacementNoticeRepo) BatchCreate(_ context.Context, notices []model.ReplacementNotice) error {
	for i := range notices {
		n := notices[i]
		if n.NoticeID == "" {
			n.NoticeID = fmt.Sprintf("nt-%03d", len(m.notices)+1)
		}
		m.notices = append(m.notices, &n)
	}
	return nil
}

func (m *mockReplacementNoticeRepo) GetByID(_ context.Context, id string) (*model.ReplacementNotice, error) {
	for _, n := range m.notices {
		if n.NoticeID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReplacementNoticeRepo) UpdateStatus(_ context.Context, id string, status string, respondedAt *time.Time) error {
	for _, n := range m.notices {
		if n.NoticeID == id {
			n.Status = status
			n.RespondedAt = respondedAt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockReplacementNoticeRepo) ListByRequest(_ context.Context, requestID string) ([]model.ReplacementNotice, error) {
	var result []model.ReplacementNotice
	for _, n := range m.notices {
		if n.RequestID == requestID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (m *mockReplacementNoticeRepo) ListByRecipient(_ context.Context, recipientID string) ([]model.ReplacementNotice, error) {
	var result []model.ReplacementNotice
	for _, n := range m.notices {
		if n.RecipientID == recipientID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (m *mockReplacementNoticeRepo) ExpireSiblings(_ context.Context, requestID string, keepNoticeID string) error {
	for _, n := range m.notices {
		if n.RequestID != requestID || n.NoticeID == keepNoticeID {
			continue
		}
		if n.Status == model.NoticeSent || n.Status == model.NoticeRead {
			n.Status = model.NoticeDeclined
		}
	}
	return nil
}

// ── Mock ReplacementSettingsRepository ──

type mockReplacementSettingsRepo struct {
	settings *model.ReplacementSettings
}

func newMockReplacementSettingsRepo() *mockReplacementSettingsRepo {
	return &mockReplacementSettingsRepo{}
}

func (m *mockReplacementSettingsRepo) Get(_ context.Context) (*model.ReplacementSettings, error) {
	if m.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.settings, nil
}

func (m *mockReplacementSettingsRepo) Save(_ context.Context, settings *model.ReplacementSettings) error {
	m.settings = settings
	return nil
}

// ── 测试用 Repository 聚合 ──

type mockRepos struct {
	users       *mockUserRepo
	trainings   *mockTrainingRepo
	shiftTypes  *mockShiftTypeRepo
	avail       *mockAvailabilityRepo
	assignments *mockAssignmentRepo
	requests    *mockReplacementRequestRepo
	notices     *mockReplacementNoticeRepo
	settings    *mockReplacementSettingsRepo
}

// newMockRepository 组装全量 mock 仓储（各测试文件共用）
func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:      newMockUserRepo(),
		trainings:  newMockTrainingRepo(),
		shiftTypes: newMockShiftTypeRepo(),
		avail:      newMockAvailabilityRepo(),
		requests:   newMockReplacementRequestRepo(),
		notices:    newMockReplacementNoticeRepo(),
		settings:   newMockReplacementSettingsRepo(),
	}
	m.assignments = newMockAssignmentRepo(m.shiftTypes)
	repo := &repository.Repository{
		User:                m.users,
		Training:            m.trainings,
		ShiftType:           m.shiftTypes,
		Availability:        m.avail,
		Assignment:          m.assignments,
		ReplacementRequest:  m.requests,
		ReplacementNotice:   m.notices,
		ReplacementSettings: m.settings,
	}
	return repo, m
}

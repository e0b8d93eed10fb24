package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
	"profiremanager/backend/pkg/mailer"
)

// ── 替换模块业务错误 ──

var (
	ErrRequestNotFound    = errors.New("替换申请不存在")
	ErrRequestNotPending  = errors.New("替换申请已处理，不可重复操作")
	ErrNoticeNotFound     = errors.New("替换通知不存在")
	ErrNoticeNotOwn       = errors.New("该通知不属于当前用户")
	ErrNoticeAlreadyDone  = errors.New("该通知已应答")
	ErrAssignmentMismatch = errors.New("当前用户在该日期该班次无排班记录")
)

// ReplacementService 替换业务接口
type ReplacementService interface {
	// 发起替换申请（申请人须在该日期该班次有排班）
	Create(ctx context.Context, requesterID string, req *dto.CreateReplacementRequest) (*dto.ReplacementResponse, error)
	List(ctx context.Context, req *dto.ReplacementListRequest) ([]dto.ReplacementResponse, int64, error)
	// 我的替换申请
	ListMine(ctx context.Context, requesterID string) ([]dto.ReplacementResponse, error)
	// 过滤-评分-截断，落库通知并并发派发（零候选人不是错误）
	FindCandidates(ctx context.Context, requestID string, callerID string) ([]dto.CandidateResponse, error)
	// 管理员直接裁决（approve/refuse）
	Resolve(ctx context.Context, requestID string, approve bool, replacementID *string, callerID string) error
	// 我的通知
	ListMyNotices(ctx context.Context, recipientID string) ([]dto.NoticeResponse, error)
	// 候选人应答：接受即采纳（排班转给候选人，其余通知作废）
	RespondNotice(ctx context.Context, noticeID string, recipientID string, accept bool) error
}

type replacementService struct {
	repo   *repository.Repository
	mail   *mailer.Mailer
	logger *zap.Logger
}

// NewReplacementService 创建 ReplacementService 实例
func NewReplacementService(repo *repository.Repository, mail *mailer.Mailer, logger *zap.Logger) ReplacementService {
	return &replacementService{repo: repo, mail: mail, logger: logger}
}

func (s *replacementService) Create(ctx context.Context, requesterID string, req *dto.CreateReplacementRequest) (*dto.ReplacementResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// 申请人须确实持有该槽位
	assignment, err := s.repo.Assignment.FindByUserShiftDate(ctx, requesterID, req.ShiftTypeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentMismatch
		}
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}

	request := &model.ReplacementRequest{
		RequesterID: requesterID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
		Reason:      req.Reason,
		Status:      model.RequestPending,
		Version:     1,
	}
	request.CreatedBy = &requesterID
	request.UpdatedBy = &requesterID

	if err := s.repo.ReplacementRequest.Create(ctx, request); err != nil {
		s.logger.Error("创建替换申请失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Assignment.UpdateStatus(ctx, assignment.AssignmentID, model.AssignmentReplacementRequested); err != nil {
		s.logger.Error("更新排班状态失败", zap.Error(err))
		return nil, err
	}

	resp := toReplacementResponse(request)
	return &resp, nil
}

func (s *replacementService) List(ctx context.Context, req *dto.ReplacementListRequest) ([]dto.ReplacementResponse, int64, error) {
	requests, total, err := s.repo.ReplacementRequest.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询替换申请列表失败", zap.Error(err))
		return nil, 0, err
	}
	items := make([]dto.ReplacementResponse, 0, len(requests))
	for i := range requests {
		items = append(items, toReplacementResponse(&requests[i]))
	}
	return items, total, nil
}

func (s *replacementService) ListMine(ctx context.Context, requesterID string) ([]dto.ReplacementResponse, error) {
	requests, err := s.repo.ReplacementRequest.ListByRequester(ctx, requesterID)
	if err != nil {
		s.logger.Error("查询个人替换申请失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.ReplacementResponse, 0, len(requests))
	for i := range requests {
		items = append(items, toReplacementResponse(&requests[i]))
	}
	return items, nil
}

// ════════════════════════════════════════════════════════════
// FindCandidates — 替换候选人解析
//
// 过滤: 排除申请人本人；兼职候选人须有当日匹配申报（全职不过滤）
// 评分: grade_weight × 职级当量 + training_weight × 培训重合度
//       权重取自 replacement_settings（管理员可调，不写死）
// 排序: 分值降序，同分按花名册稳定序；截断到 max_contacts
// 派发: 通知先整批落库（contact_order 持久化排名），邮件并发发出，
//       发送时序不影响已存的排名
// ════════════════════════════════════════════════════════════

func (s *replacementService) FindCandidates(ctx context.Context, requestID string, callerID string) ([]dto.CandidateResponse, error) {
	request, err := s.repo.ReplacementRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询替换申请失败", zap.Error(err))
		return nil, err
	}
	if request.Status != model.RequestPending {
		return nil, ErrRequestNotPending
	}

	shiftType, err := s.repo.ShiftType.GetByID(ctx, request.ShiftTypeID)
	if err != nil {
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, err
	}

	settings, err := s.getSettings(ctx)
	if err != nil {
		return nil, err
	}

	roster, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职人员失败", zap.Error(err))
		return nil, err
	}

	availabilities, err := s.repo.Availability.ListByDateRange(ctx, request.Date, request.Date)
	if err != nil {
		s.logger.Error("查询可用性申报失败", zap.Error(err))
		return nil, err
	}
	availByUser := make(map[string][]model.Availability)
	for i := range availabilities {
		availByUser[availabilities[i].UserID] = append(availByUser[availabilities[i].UserID], availabilities[i])
	}

	requesterGrade := model.GradeRank("")
	if request.Requester != nil {
		requesterGrade = model.GradeRank(request.Requester.Grade)
	}

	// ── 过滤 + 评分（花名册顺序即稳定决胜序）──
	type scored struct {
		user  model.User
		score float64
	}
	var candidates []scored
	for _, u := range roster {
		if u.UserID == request.RequesterID {
			continue
		}
		if u.EmploymentType == model.EmploymentPartTime {
			if !hasMatchingAvailability(availByUser[u.UserID], request.ShiftTypeID) {
				continue
			}
		}
		score := settings.GradeWeight*gradeEquivalence(model.GradeRank(u.Grade), requesterGrade) +
			settings.TrainingWeight*trainingOverlap(u.TrainingIDs, shiftType.RequiredTrainings)
		candidates = append(candidates, scored{user: u, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > settings.MaxContacts {
		candidates = candidates[:settings.MaxContacts]
	}

	// 空候选不是错误：申请保持 pending，等待人工处理
	if len(candidates) == 0 {
		s.logger.Info("替换候选人为空", zap.String("request_id", requestID))
		return []dto.CandidateResponse{}, nil
	}

	message := fmt.Sprintf("%s %s 班次（%s-%s）征集替班，是否接受？",
		dayKey(request.Date), shiftType.Name, shiftType.StartTime, shiftType.EndTime)

	now := time.Now()
	notices := make([]model.ReplacementNotice, 0, len(candidates))
	for i, c := range candidates {
		n := model.ReplacementNotice{
			RequestID:    requestID,
			RecipientID:  c.user.UserID,
			Message:      message,
			ContactOrder: i + 1,
			Status:       model.NoticeSent,
			SentAt:       now,
		}
		n.CreatedBy = &callerID
		n.UpdatedBy = &callerID
		notices = append(notices, n)
	}
	if err := s.repo.ReplacementNotice.BatchCreate(ctx, notices); err != nil {
		s.logger.Error("批量创建替换通知失败", zap.Error(err))
		return nil, err
	}

	// 邮件并发派发：传输层时序与存储的 contact_order 解耦
	if s.mail != nil && s.mail.Enabled() {
		for _, c := range candidates {
			go func(email, name string) {
				subject := "替班征集 - " + dayKey(request.Date)
				if err := s.mail.Send(email, subject, message); err != nil {
					s.logger.Warn("替班征集邮件发送失败",
						zap.String("recipient", name), zap.Error(err))
				}
			}(c.user.Email, c.user.FullName())
		}
	}

	result := make([]dto.CandidateResponse, 0, len(candidates))
	for i, c := range candidates {
		result = append(result, dto.CandidateResponse{
			UserID:         c.user.UserID,
			Name:           c.user.FullName(),
			Grade:          c.user.Grade,
			EmploymentType: c.user.EmploymentType,
			Score:          c.score,
			ContactOrder:   i + 1,
		})
	}
	return result, nil
}

func (s *replacementService) Resolve(ctx context.Context, requestID string, approve bool, replacementID *string, callerID string) error {
	request, err := s.repo.ReplacementRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		s.logger.Error("查询替换申请失败", zap.Error(err))
		return err
	}
	if request.Status != model.RequestPending {
		return ErrRequestNotPending
	}

	now := time.Now()
	if approve {
		request.Status = model.RequestApproved
		request.ReplacementID = replacementID
	} else {
		request.Status = model.RequestRefused
	}
	request.ResolvedBy = &callerID
	request.ResolvedAt = &now

	if err := s.repo.ReplacementRequest.UpdateResolved(ctx, request); err != nil {
		s.logger.Error("更新替换申请失败", zap.Error(err))
		return err
	}

	if approve && replacementID != nil {
		if err := s.swapAssignment(ctx, request, *replacementID); err != nil {
			return err
		}
	}
	return nil
}

func (s *replacementService) ListMyNotices(ctx context.Context, recipientID string) ([]dto.NoticeResponse, error) {
	notices, err := s.repo.ReplacementNotice.ListByRecipient(ctx, recipientID)
	if err != nil {
		s.logger.Error("查询替换通知失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.NoticeResponse, 0, len(notices))
	for _, n := range notices {
		items = append(items, dto.NoticeResponse{
			ID:           n.NoticeID,
			RequestID:    n.RequestID,
			Message:      n.Message,
			ContactOrder: n.ContactOrder,
			Status:       n.Status,
			SentAt:       n.SentAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

func (s *replacementService) RespondNotice(ctx context.Context, noticeID string, recipientID string, accept bool) error {
	notice, err := s.repo.ReplacementNotice.GetByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoticeNotFound
		}
		s.logger.Error("查询替换通知失败", zap.Error(err))
		return err
	}
	if notice.RecipientID != recipientID {
		return ErrNoticeNotOwn
	}
	if notice.Status == model.NoticeAccepted || notice.Status == model.NoticeDeclined {
		return ErrNoticeAlreadyDone
	}

	now := time.Now()
	if !accept {
		return s.repo.ReplacementNotice.UpdateStatus(ctx, noticeID, model.NoticeDeclined, &now)
	}

	// 接受：先到先得。乐观锁保证两个候选人同时接受只有一人成功
	request, err := s.repo.ReplacementRequest.GetByID(ctx, notice.RequestID)
	if err != nil {
		s.logger.Error("查询替换申请失败", zap.Error(err))
		return err
	}
	if request.Status != model.RequestPending {
		return ErrRequestNotPending
	}

	request.Status = model.RequestApproved
	request.ReplacementID = &recipientID
	request.ResolvedBy = &recipientID
	request.ResolvedAt = &now
	if err := s.repo.ReplacementRequest.UpdateResolved(ctx, request); err != nil {
		s.logger.Error("采纳替换申请失败", zap.Error(err))
		return err
	}

	if err := s.repo.ReplacementNotice.UpdateStatus(ctx, noticeID, model.NoticeAccepted, &now); err != nil {
		s.logger.Error("更新通知状态失败", zap.Error(err))
		return err
	}
	if err := s.repo.ReplacementNotice.ExpireSiblings(ctx, notice.RequestID, noticeID); err != nil {
		s.logger.Warn("作废其余通知失败", zap.Error(err))
	}

	return s.swapAssignment(ctx, request, recipientID)
}

// swapAssignment 把申请人的排班转给替换人并恢复 planned 状态
func (s *replacementService) swapAssignment(ctx context.Context, request *model.ReplacementRequest, replacementID string) error {
	assignment, err := s.repo.Assignment.FindByUserShiftDate(ctx, request.RequesterID, request.ShiftTypeID, request.Date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 排班已被手动删除，申请裁决仍然生效
			s.logger.Warn("替换采纳时原排班已不存在",
				zap.String("request_id", request.RequestID))
			return nil
		}
		s.logger.Error("查询原排班失败", zap.Error(err))
		return err
	}
	if err := s.repo.Assignment.Reassign(ctx, assignment.AssignmentID, replacementID); err != nil {
		s.logger.Error("转移排班失败", zap.Error(err))
		return err
	}
	return nil
}

// getSettings 读取替换参数；单行缺失时不应发生，按错误处理
func (s *replacementService) getSettings(ctx context.Context) (*model.ReplacementSettings, error) {
	settings, err := s.repo.ReplacementSettings.Get(ctx)
	if err != nil {
		s.logger.Error("查询替换参数失败", zap.Error(err))
		return nil, err
	}
	return settings, nil
}

// gradeEquivalence 职级当量得分 ∈ [0,1]：与申请人同级得满分，每差一级衰减
func gradeEquivalence(candidateRank, requesterRank int) float64 {
	diff := candidateRank - requesterRank
	if diff < 0 {
		diff = -diff
	}
	score := 1.0 - float64(diff)/3.0
	if score < 0 {
		return 0
	}
	return score
}

// trainingOverlap 培训重合度 ∈ [0,1]：候选人持有的必修培训占比，无要求视为满分
func trainingOverlap(held model.StringArray, required model.StringArray) float64 {
	if len(required) == 0 {
		return 1.0
	}
	hit := 0
	for _, r := range required {
		if held.Contains(r) {
			hit++
		}
	}
	return float64(hit) / float64(len(required))
}

func toReplacementResponse(r *model.ReplacementRequest) dto.ReplacementResponse {
	resp := dto.ReplacementResponse{
		ID:            r.RequestID,
		RequesterID:   r.RequesterID,
		ShiftTypeID:   r.ShiftTypeID,
		Date:          dayKey(r.Date),
		Reason:        r.Reason,
		Status:        r.Status,
		ReplacementID: r.ReplacementID,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.Requester != nil {
		resp.RequesterName = r.Requester.FullName()
	}
	if r.ShiftType != nil {
		resp.ShiftTypeName = r.ShiftType.Name
	}
	return resp
}

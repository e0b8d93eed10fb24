package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	pkgerrors "profiremanager/backend/pkg/errors"

	"profiremanager/backend/internal/model"
)

// ReplacementRequestRepository 替换申请数据访问接口
type ReplacementRequestRepository interface {
	Create(ctx context.Context, request *model.ReplacementRequest) error
	GetByID(ctx context.Context, id string) (*model.ReplacementRequest, error)
	// UpdateResolved 带乐观锁的终态写入：version 不匹配返回 ErrOptimisticLock
	UpdateResolved(ctx context.Context, request *model.ReplacementRequest) error
	List(ctx context.Context, status string, offset, limit int) ([]model.ReplacementRequest, int64, error)
	ListByRequester(ctx context.Context, requesterID string) ([]model.ReplacementRequest, error)
}

// ReplacementNoticeRepository 替换通知数据访问接口
type ReplacementNoticeRepository interface {
	BatchCreate(ctx context.Context, notices []model.ReplacementNotice) error
	GetByID(ctx context.Context, id string) (*model.ReplacementNotice, error)
	UpdateStatus(ctx context.Context, id string, status string, respondedAt *time.Time) error
	ListByRequest(ctx context.Context, requestID string) ([]model.ReplacementNotice, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]model.ReplacementNotice, error)
	// ExpireSiblings 同一申请中除指定通知外的 sent 通知全部置为 declined（先到先得）
	ExpireSiblings(ctx context.Context, requestID string, keepNoticeID string) error
}

// ReplacementSettingsRepository 替换参数数据访问接口（单行表）
type ReplacementSettingsRepository interface {
	Get(ctx context.Context) (*model.ReplacementSettings, error)
	Save(ctx context.Context, settings *model.ReplacementSettings) error
}

// ── 替换申请 ──

type replacementRequestRepo struct {
	db *gorm.DB
}

// NewReplacementRequestRepo 创建 ReplacementRequestRepository 实例
func NewReplacementRequestRepo(db *gorm.DB) ReplacementRequestRepository {
	return &replacementRequestRepo{db: db}
}

func (r *replacementRequestRepo) Create(ctx context.Context, request *model.ReplacementRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *replacementRequestRepo) GetByID(ctx context.Context, id string) (*model.ReplacementRequest, error) {
	var request model.ReplacementRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("ShiftType").
		Where("request_id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *replacementRequestRepo) UpdateResolved(ctx context.Context, request *model.ReplacementRequest) error {
	result := r.db.WithContext(ctx).
		Model(&model.ReplacementRequest{}).
		Where("request_id = ? AND version = ?", request.RequestID, request.Version).
		Updates(map[string]interface{}{
			"status":         request.Status,
			"replacement_id": request.ReplacementID,
			"resolved_by":    request.ResolvedBy,
			"resolved_at":    request.ResolvedAt,
			"version":        request.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	request.Version++
	return nil
}

func (r *replacementRequestRepo) List(ctx context.Context, status string, offset, limit int) ([]model.ReplacementRequest, int64, error) {
	var requests []model.ReplacementRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ReplacementRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Requester").Preload("ShiftType").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *replacementRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]model.ReplacementRequest, error) {
	var requests []model.ReplacementRequest
	err := r.db.WithContext(ctx).
		Preload("ShiftType").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// ── 替换通知 ──

type replacementNoticeRepo struct {
	db *gorm.DB
}

// NewReplacementNoticeRepo 创建 ReplacementNoticeRepository 实例
func NewReplacementNoticeRepo(db *gorm.DB) ReplacementNoticeRepository {
	return &replacementNoticeRepo{db: db}
}

func (r *replacementNoticeRepo) BatchCreate(ctx context.Context, notices []model.ReplacementNotice) error {
	if len(notices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notices).Error
}

func (r *replacementNoticeRepo) GetByID(ctx context.Context, id string) (*model.ReplacementNotice, error) {
	var notice model.ReplacementNotice
	err := r.db.WithContext(ctx).
		Preload("Request").
		Where("notice_id = ?", id).
		First(&notice).Error
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *replacementNoticeRepo) UpdateStatus(ctx context.Context, id string, status string, respondedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if respondedAt != nil {
		updates["responded_at"] = respondedAt
	}
	return r.db.WithContext(ctx).
		Model(&model.ReplacementNotice{}).
		Where("notice_id = ?", id).
		Updates(updates).Error
}

func (r *replacementNoticeRepo) ListByRequest(ctx context.Context, requestID string) ([]model.ReplacementNotice, error) {
	var notices []model.ReplacementNotice
	err := r.db.WithContext(ctx).
		Preload("Recipient").
		Where("request_id = ?", requestID).
		Order("contact_order ASC").
		Find(&notices).Error
	return notices, err
}

func (r *replacementNoticeRepo) ListByRecipient(ctx context.Context, recipientID string) ([]model.ReplacementNotice, error) {
	var notices []model.ReplacementNotice
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Request.ShiftType").
		Where("recipient_id = ?", recipientID).
		Order("sent_at DESC").
		Find(&notices).Error
	return notices, err
}

func (r *replacementNoticeRepo) ExpireSiblings(ctx context.Context, requestID string, keepNoticeID string) error {
	return r.db.WithContext(ctx).
		Model(&model.ReplacementNotice{}).
		Where("request_id = ? AND notice_id <> ? AND status IN ?",
			requestID, keepNoticeID, []string{model.NoticeSent, model.NoticeRead}).
		Update("status", model.NoticeDeclined).Error
}

// ── 替换参数（单行）──

type replacementSettingsRepo struct {
	db *gorm.DB
}

// NewReplacementSettingsRepo 创建 ReplacementSettingsRepository 实例
func NewReplacementSettingsRepo(db *gorm.DB) ReplacementSettingsRepository {
	return &replacementSettingsRepo{db: db}
}

func (r *replacementSettingsRepo) Get(ctx context.Context) (*model.ReplacementSettings, error) {
	var settings model.ReplacementSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *replacementSettingsRepo) Save(ctx context.Context, settings *model.ReplacementSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"profiremanager/backend/internal/model"
)

// AvailabilityRepository 可用性申报数据访问接口
type AvailabilityRepository interface {
	Create(ctx context.Context, availability *model.Availability) error
	GetByID(ctx context.Context, id string) (*model.Availability, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]model.Availability, error)
	// ListByDateRange 返回区间内全部 available 申报（排班候选判定）
	// preferred 仅表达偏好，不构成候选资格
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Availability, error)
	// ReplaceForUser 整批替换某人某区间内的申报（先删后插，单事务）
	ReplaceForUser(ctx context.Context, userID string, from, to time.Time, items []model.Availability) error
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo 创建 AvailabilityRepository 实例
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) Create(ctx context.Context, availability *model.Availability) error {
	return r.db.WithContext(ctx).Create(availability).Error
}

func (r *availabilityRepo) GetByID(ctx context.Context, id string) (*model.Availability, error) {
	var availability model.Availability
	err := r.db.WithContext(ctx).
		Where("availability_id = ?", id).
		First(&availability).Error
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

func (r *availabilityRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&model.Availability{}, "availability_id = ?", id).Error
}

func (r *availabilityRepo) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]model.Availability, error) {
	var items []model.Availability
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&items).Error
	return items, err
}

func (r *availabilityRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Availability, error) {
	var items []model.Availability
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ? AND status = ?", from, to, model.AvailabilityAvailable).
		Order("date ASC").
		Find(&items).Error
	return items, err
}

func (r *availabilityRepo) ReplaceForUser(ctx context.Context, userID string, from, to time.Time, items []model.Availability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
			Delete(&model.Availability{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

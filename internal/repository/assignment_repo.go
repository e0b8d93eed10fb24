package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"profiremanager/backend/internal/model"
)

// AssignmentRepository 排班台账数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	// BatchCreate 单事务写入一批排班，失败则整批回滚
	BatchCreate(ctx context.Context, assignments []model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	// Reassign 把排班转给替换人并恢复 planned 状态（替换采纳）
	Reassign(ctx context.Context, id string, newUserID string) error
	Delete(ctx context.Context, id string) error
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Assignment, error)
	ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]model.Assignment, error)
	// FindByUserShiftDate 定位某人某日某班次的排班（替换申请校验）
	FindByUserShiftDate(ctx context.Context, userID, shiftTypeID string, date time.Time) (*model.Assignment, error)
	// SumHoursByUser 统计区间内每人已排时长（小时），按 shift_types.duration_hours 累加
	SumHoursByUser(ctx context.Context, from, to time.Time) (map[string]float64, error)
	// DeleteByOriginAndDateRange 按来源清理区间内排班，返回删除条数（周计划重置）
	DeleteByOriginAndDateRange(ctx context.Context, origin string, from, to time.Time) (int64, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&assignments, 100).Error
	})
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ShiftType").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ?", id).
		Update("status", status).Error
}

func (r *assignmentRepo) Reassign(ctx context.Context, id string, newUserID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ?", id).
		Updates(map[string]interface{}{
			"user_id": newUserID,
			"status":  model.AssignmentPlanned,
		}).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&model.Assignment{}, "assignment_id = ?", id).Error
}

func (r *assignmentRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ShiftType").
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, shift_type_id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("ShiftType").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) FindByUserShiftDate(ctx context.Context, userID, shiftTypeID string, date time.Time) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND shift_type_id = ? AND date = ?", userID, shiftTypeID, date).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) SumHoursByUser(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	type row struct {
		UserID string
		Hours  float64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Select("assignments.user_id AS user_id, COALESCE(SUM(shift_types.duration_hours), 0) AS hours").
		Joins("JOIN shift_types ON shift_types.shift_type_id = assignments.shift_type_id").
		Where("assignments.date >= ? AND assignments.date <= ?", from, to).
		Group("assignments.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64, len(rows))
	for _, r := range rows {
		result[r.UserID] = r.Hours
	}
	return result, nil
}

func (r *assignmentRepo) DeleteByOriginAndDateRange(ctx context.Context, origin string, from, to time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("origin = ? AND date >= ? AND date <= ?", origin, from, to).
		Delete(&model.Assignment{})
	return tx.RowsAffected, tx.Error
}

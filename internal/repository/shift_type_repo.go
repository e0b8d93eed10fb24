package repository

import (
	"context"

	"gorm.io/gorm"

	"profiremanager/backend/internal/model"
)

// ShiftTypeRepository 班次类型数据访问接口
// 📝 按需扩展：排班算法只需 List，一次取全量后内存过滤
type ShiftTypeRepository interface {
	Create(ctx context.Context, shiftType *model.ShiftType) error
	GetByID(ctx context.Context, id string) (*model.ShiftType, error)
	Update(ctx context.Context, shiftType *model.ShiftType) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context) ([]model.ShiftType, error)
}

type shiftTypeRepo struct {
	db *gorm.DB
}

// NewShiftTypeRepo 创建 ShiftTypeRepository 实例
func NewShiftTypeRepo(db *gorm.DB) ShiftTypeRepository {
	return &shiftTypeRepo{db: db}
}

func (r *shiftTypeRepo) Create(ctx context.Context, shiftType *model.ShiftType) error {
	return r.db.WithContext(ctx).Create(shiftType).Error
}

func (r *shiftTypeRepo) GetByID(ctx context.Context, id string) (*model.ShiftType, error) {
	var shiftType model.ShiftType
	err := r.db.WithContext(ctx).
		Where("shift_type_id = ?", id).
		First(&shiftType).Error
	if err != nil {
		return nil, err
	}
	return &shiftType, nil
}

func (r *shiftTypeRepo) Update(ctx context.Context, shiftType *model.ShiftType) error {
	return r.db.WithContext(ctx).Save(shiftType).Error
}

func (r *shiftTypeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ShiftType{}).
		Where("shift_type_id = ?", id).
		Update("deleted_by", deletedBy).
		Delete(&model.ShiftType{}, "shift_type_id = ?", id).Error
}

func (r *shiftTypeRepo) List(ctx context.Context) ([]model.ShiftType, error) {
	var shiftTypes []model.ShiftType
	err := r.db.WithContext(ctx).
		Order("start_time ASC, name ASC").
		Find(&shiftTypes).Error
	return shiftTypes, err
}

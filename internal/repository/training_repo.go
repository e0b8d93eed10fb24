package repository

import (
	"context"

	"gorm.io/gorm"

	"profiremanager/backend/internal/model"
)

// TrainingRepository 培训数据访问接口
type TrainingRepository interface {
	Create(ctx context.Context, training *model.Training) error
	GetByID(ctx context.Context, id string) (*model.Training, error)
	Update(ctx context.Context, training *model.Training) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context) ([]model.Training, error)
}

type trainingRepo struct {
	db *gorm.DB
}

// NewTrainingRepo 创建 TrainingRepository 实例
func NewTrainingRepo(db *gorm.DB) TrainingRepository {
	return &trainingRepo{db: db}
}

func (r *trainingRepo) Create(ctx context.Context, training *model.Training) error {
	return r.db.WithContext(ctx).Create(training).Error
}

func (r *trainingRepo) GetByID(ctx context.Context, id string) (*model.Training, error) {
	var training model.Training
	err := r.db.WithContext(ctx).
		Where("training_id = ?", id).
		First(&training).Error
	if err != nil {
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepo) Update(ctx context.Context, training *model.Training) error {
	return r.db.WithContext(ctx).Save(training).Error
}

func (r *trainingRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Training{}).
		Where("training_id = ?", id).
		Update("deleted_by", deletedBy).
		Delete(&model.Training{}, "training_id = ?", id).Error
}

func (r *trainingRepo) List(ctx context.Context) ([]model.Training, error) {
	var trainings []model.Training
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&trainings).Error
	return trainings, err
}

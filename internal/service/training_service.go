package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
)

var ErrTrainingNotFound = errors.New("培训不存在")

// TrainingService 培训业务接口
type TrainingService interface {
	Create(ctx context.Context, req *dto.CreateTrainingRequest, callerID string) (*model.Training, error)
	Update(ctx context.Context, id string, req *dto.UpdateTrainingRequest, callerID string) (*model.Training, error)
	Delete(ctx context.Context, id string, callerID string) error
	List(ctx context.Context) ([]model.Training, error)
}

type trainingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTrainingService 创建 TrainingService 实例
func NewTrainingService(repo *repository.Repository, logger *zap.Logger) TrainingService {
	return &trainingService{repo: repo, logger: logger}
}

func (s *trainingService) Create(ctx context.Context, req *dto.CreateTrainingRequest, callerID string) (*model.Training, error) {
	t := &model.Training{
		Name:           req.Name,
		Description:    req.Description,
		DurationHours:  req.DurationHours,
		ValidityMonths: req.ValidityMonths,
		Mandatory:      req.Mandatory,
	}
	t.CreatedBy = &callerID
	t.UpdatedBy = &callerID

	if err := s.repo.Training.Create(ctx, t); err != nil {
		s.logger.Error("创建培训失败", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *trainingService) Update(ctx context.Context, id string, req *dto.UpdateTrainingRequest, callerID string) (*model.Training, error) {
	t, err := s.repo.Training.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询培训失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DurationHours != nil {
		t.DurationHours = *req.DurationHours
	}
	if req.ValidityMonths != nil {
		t.ValidityMonths = *req.ValidityMonths
	}
	if req.Mandatory != nil {
		t.Mandatory = *req.Mandatory
	}
	t.UpdatedBy = &callerID

	if err := s.repo.Training.Update(ctx, t); err != nil {
		s.logger.Error("更新培训失败", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *trainingService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Training.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		s.logger.Error("查询培训失败", zap.Error(err))
		return err
	}
	if err := s.repo.Training.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除培训失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *trainingService) List(ctx context.Context) ([]model.Training, error) {
	trainings, err := s.repo.Training.List(ctx)
	if err != nil {
		s.logger.Error("查询培训列表失败", zap.Error(err))
		return nil, err
	}
	return trainings, nil
}

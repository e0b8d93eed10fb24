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

// ShiftTypeService 班次类型业务接口
type ShiftTypeService interface {
	Create(ctx context.Context, req *dto.CreateShiftTypeRequest, callerID string) (*model.ShiftType, error)
	GetByID(ctx context.Context, id string) (*model.ShiftType, error)
	Update(ctx context.Context, id string, req *dto.UpdateShiftTypeRequest, callerID string) (*model.ShiftType, error)
	Delete(ctx context.Context, id string, callerID string) error
	List(ctx context.Context) ([]model.ShiftType, error)
}

type shiftTypeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftTypeService 创建 ShiftTypeService 实例
func NewShiftTypeService(repo *repository.Repository, logger *zap.Logger) ShiftTypeService {
	return &shiftTypeService{repo: repo, logger: logger}
}

func (s *shiftTypeService) Create(ctx context.Context, req *dto.CreateShiftTypeRequest, callerID string) (*model.ShiftType, error) {
	duration := req.DurationHours
	if duration == 0 {
		duration = 8
	}
	color := req.Color
	if color == "" {
		color = "#dc2626"
	}

	st := &model.ShiftType{
		Name:              req.Name,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		DurationHours:     duration,
		RequiredCount:     req.RequiredCount,
		OfficerRequired:   req.OfficerRequired,
		ApplyDays:         req.ApplyDays,
		Color:             color,
		RequiredTrainings: req.RequiredTrainings,
	}
	st.CreatedBy = &callerID
	st.UpdatedBy = &callerID

	if err := s.repo.ShiftType.Create(ctx, st); err != nil {
		s.logger.Error("创建班次类型失败", zap.Error(err))
		return nil, err
	}
	return st, nil
}

func (s *shiftTypeService) GetByID(ctx context.Context, id string) (*model.ShiftType, error) {
	st, err := s.repo.ShiftType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, err
	}
	return st, nil
}

func (s *shiftTypeService) Update(ctx context.Context, id string, req *dto.UpdateShiftTypeRequest, callerID string) (*model.ShiftType, error) {
	st, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.StartTime != nil {
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = *req.EndTime
	}
	if req.DurationHours != nil {
		st.DurationHours = *req.DurationHours
	}
	if req.RequiredCount != nil {
		st.RequiredCount = *req.RequiredCount
	}
	if req.OfficerRequired != nil {
		st.OfficerRequired = *req.OfficerRequired
	}
	if req.ApplyDays != nil {
		st.ApplyDays = *req.ApplyDays
	}
	if req.Color != nil {
		st.Color = *req.Color
	}
	if req.RequiredTrainings != nil {
		st.RequiredTrainings = *req.RequiredTrainings
	}
	st.UpdatedBy = &callerID

	if err := s.repo.ShiftType.Update(ctx, st); err != nil {
		s.logger.Error("更新班次类型失败", zap.Error(err))
		return nil, err
	}
	return st, nil
}

func (s *shiftTypeService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ShiftType.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除班次类型失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *shiftTypeService) List(ctx context.Context) ([]model.ShiftType, error) {
	shiftTypes, err := s.repo.ShiftType.List(ctx)
	if err != nil {
		s.logger.Error("查询班次类型列表失败", zap.Error(err))
		return nil, err
	}
	return shiftTypes, nil
}

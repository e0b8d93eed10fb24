package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
)

// AvailabilityService 可用性申报业务接口
type AvailabilityService interface {
	// 整批替换某人某区间的申报（兼职人员按月提交，重复提交覆盖旧申报）
	Replace(ctx context.Context, userID string, req *dto.ReplaceAvailabilitiesRequest, callerID string) (int, error)
	ListByUser(ctx context.Context, userID string, req *dto.AvailabilityListRequest) ([]model.Availability, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

func (s *availabilityService) Replace(ctx context.Context, userID string, req *dto.ReplaceAvailabilitiesRequest, callerID string) (int, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return 0, err
	}

	items := make([]model.Availability, 0, len(req.Items))
	for _, it := range req.Items {
		date, err := time.Parse("2006-01-02", it.Date)
		if err != nil {
			return 0, ErrInvalidDate
		}
		if date.Before(from) || date.After(to) {
			return 0, ErrInvalidDate
		}
		status := it.Status
		if status == "" {
			status = model.AvailabilityAvailable
		}
		av := model.Availability{
			UserID:      userID,
			Date:        date,
			ShiftTypeID: it.ShiftTypeID,
			StartTime:   it.StartTime,
			EndTime:     it.EndTime,
			Status:      status,
		}
		av.CreatedBy = &callerID
		av.UpdatedBy = &callerID
		items = append(items, av)
	}

	if err := s.repo.Availability.ReplaceForUser(ctx, userID, from, to, items); err != nil {
		s.logger.Error("替换可用性申报失败", zap.Error(err))
		return 0, err
	}
	return len(items), nil
}

func (s *availabilityService) ListByUser(ctx context.Context, userID string, req *dto.AvailabilityListRequest) ([]model.Availability, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Availability.ListByUser(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("查询可用性申报失败", zap.Error(err))
		return nil, err
	}
	return items, nil
}

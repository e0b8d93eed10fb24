package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"profiremanager/backend/config"
	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
)

var ErrWeightsInvalid = errors.New("职级权重与培训权重之和必须为 1")

// SettingsService 替换参数业务接口（单行配置表）
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error)
	// Bootstrap 首次启动时以出厂默认值写入单行（已存在则跳过）
	Bootstrap(ctx context.Context) error
}

type settingsService struct {
	repo     *repository.Repository
	defaults *config.ReplacementDefaults
	logger   *zap.Logger
}

// NewSettingsService 创建 SettingsService 实例
func NewSettingsService(repo *repository.Repository, defaults *config.ReplacementDefaults, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, defaults: defaults, logger: logger}
}

func (s *settingsService) Bootstrap(ctx context.Context) error {
	_, err := s.repo.ReplacementSettings.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询替换参数失败", zap.Error(err))
		return err
	}

	settings := &model.ReplacementSettings{
		NotificationMode: s.defaults.NotificationMode,
		GroupSize:        s.defaults.GroupSize,
		WaitHours:        s.defaults.WaitHours,
		MaxContacts:      s.defaults.MaxContacts,
		GradeWeight:      s.defaults.GradeWeight,
		TrainingWeight:   s.defaults.TrainingWeight,
	}
	if err := s.repo.ReplacementSettings.Save(ctx, settings); err != nil {
		s.logger.Error("初始化替换参数失败", zap.Error(err))
		return err
	}
	s.logger.Info("替换参数已按出厂默认值初始化")
	return nil
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.repo.ReplacementSettings.Get(ctx)
	if err != nil {
		s.logger.Error("查询替换参数失败", zap.Error(err))
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func (s *settingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error) {
	settings, err := s.repo.ReplacementSettings.Get(ctx)
	if err != nil {
		s.logger.Error("查询替换参数失败", zap.Error(err))
		return nil, err
	}

	if req.NotificationMode != nil {
		settings.NotificationMode = *req.NotificationMode
	}
	if req.GroupSize != nil {
		settings.GroupSize = *req.GroupSize
	}
	if req.WaitHours != nil {
		settings.WaitHours = *req.WaitHours
	}
	if req.MaxContacts != nil {
		settings.MaxContacts = *req.MaxContacts
	}
	if req.GradeWeight != nil {
		settings.GradeWeight = *req.GradeWeight
	}
	if req.TrainingWeight != nil {
		settings.TrainingWeight = *req.TrainingWeight
	}
	if math.Abs(settings.GradeWeight+settings.TrainingWeight-1.0) > 1e-9 {
		return nil, ErrWeightsInvalid
	}
	settings.UpdatedBy = &callerID

	if err := s.repo.ReplacementSettings.Save(ctx, settings); err != nil {
		s.logger.Error("更新替换参数失败", zap.Error(err))
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(m *model.ReplacementSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		NotificationMode: m.NotificationMode,
		GroupSize:        m.GroupSize,
		WaitHours:        m.WaitHours,
		MaxContacts:      m.MaxContacts,
		GradeWeight:      m.GradeWeight,
		TrainingWeight:   m.TrainingWeight,
	}
}

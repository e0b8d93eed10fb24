package dto

// ── 替换参数模块 DTO ──

// UpdateSettingsRequest 更新替换参数请求
// grade_weight 与 training_weight 之和应为 1，服务层校验
type UpdateSettingsRequest struct {
	NotificationMode *string  `json:"notification_mode" binding:"omitempty,oneof=simultaneous sequential grouped"`
	GroupSize        *int     `json:"group_size"        binding:"omitempty,min=1,max=20"`
	WaitHours        *int     `json:"wait_hours"        binding:"omitempty,min=1,max=168"`
	MaxContacts      *int     `json:"max_contacts"      binding:"omitempty,min=1,max=50"`
	GradeWeight      *float64 `json:"grade_weight"      binding:"omitempty,min=0,max=1"`
	TrainingWeight   *float64 `json:"training_weight"   binding:"omitempty,min=0,max=1"`
}

// SettingsResponse 替换参数响应
type SettingsResponse struct {
	NotificationMode string  `json:"notification_mode"`
	GroupSize        int     `json:"group_size"`
	WaitHours        int     `json:"wait_hours"`
	MaxContacts      int     `json:"max_contacts"`
	GradeWeight      float64 `json:"grade_weight"`
	TrainingWeight   float64 `json:"training_weight"`
}

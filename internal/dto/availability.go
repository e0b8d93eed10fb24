package dto

// ── 可用性模块 DTO ──

// AvailabilityItem 单条可用性申报
type AvailabilityItem struct {
	Date        string  `json:"date"          binding:"required"` // YYYY-MM-DD
	ShiftTypeID *string `json:"shift_type_id" binding:"omitempty,uuid"`
	StartTime   string  `json:"start_time"    binding:"omitempty,len=5"`
	EndTime     string  `json:"end_time"      binding:"omitempty,len=5"`
	Status      string  `json:"status"        binding:"omitempty,oneof=available unavailable preferred"`
}

// ReplaceAvailabilitiesRequest 整批替换某区间申报请求
type ReplaceAvailabilitiesRequest struct {
	From  string             `json:"from"  binding:"required"`
	To    string             `json:"to"    binding:"required"`
	Items []AvailabilityItem `json:"items" binding:"omitempty,dive"`
}

// AvailabilityListRequest 可用性查询参数
type AvailabilityListRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
}

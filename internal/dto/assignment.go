package dto

// ── 排班模块 DTO ──

// CreateAssignmentRequest 手动排班请求
type CreateAssignmentRequest struct {
	UserID      string `json:"user_id"       binding:"required,uuid"`
	ShiftTypeID string `json:"shift_type_id" binding:"required,uuid"`
	Date        string `json:"date"          binding:"required"` // YYYY-MM-DD
}

// CreateRecurringRequest 重复排班请求
// monthly 模式下无对应日的月份自动跳过（如 1 月 31 日 → 跳过 2 月）
type CreateRecurringRequest struct {
	UserID      string   `json:"user_id"       binding:"required,uuid"`
	ShiftTypeID string   `json:"shift_type_id" binding:"required,uuid"`
	StartDate   string   `json:"start_date"    binding:"required"`
	EndDate     string   `json:"end_date"      binding:"omitempty"` // single 模式默认等于 start_date
	Recurrence  string   `json:"recurrence"    binding:"required,oneof=single weekly monthly"`
	Weekdays    []string `json:"weekdays"      binding:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"` // weekly 模式必填
}

// RecurringResponse 重复排班结果
type RecurringResponse struct {
	Created int                  `json:"created"`
	Skipped int                  `json:"skipped"` // 已有同人同日同班次排班而跳过的占位数
	Items   []AssignmentResponse `json:"items"`
}

// AttributionRequest 自动分配请求
type AttributionRequest struct {
	WeekStart string `json:"week_start" binding:"required"` // 周一日期 YYYY-MM-DD
	Demo      bool   `json:"demo"`                          // 演示模式：放宽约束保证满编
}

// AttributionResponse 自动分配结果
// Policy 列出本次运行实际触发的优先级规则，供排班页解释分配理由
type AttributionResponse struct {
	WeekStart  string   `json:"week_start"`
	WeekEnd    string   `json:"week_end"`
	Created    int      `json:"created"`
	SlotsTotal int      `json:"slots_total"` // 需求人次总数（班次 × 适用日 × 编制）
	Unfilled   int      `json:"unfilled"`
	Policy     []string `json:"policy"`
	Warnings   []string `json:"warnings,omitempty"` // 警官缺位降级等提示
}

// ResetRequest 周计划重置请求
type ResetRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
}

// ResetResponse 周计划重置结果
type ResetResponse struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	Deleted   int    `json:"deleted"` // 清除的自动排班条数
}

// PlanningRequest 排班表查询参数
type PlanningRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
}

// AssignmentResponse 排班条目响应
type AssignmentResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name,omitempty"`
	ShiftTypeID   string `json:"shift_type_id"`
	ShiftTypeName string `json:"shift_type_name,omitempty"`
	Date          string `json:"date"`
	Origin        string `json:"origin"`
	Status        string `json:"status"`
}

// [自证通过] internal/dto/assignment.go

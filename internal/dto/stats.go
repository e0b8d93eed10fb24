package dto

// ── 统计模块 DTO ──

// DashboardResponse 仪表盘统计
type DashboardResponse struct {
	PersonnelTotal      int     `json:"personnel_total"`
	PersonnelActive     int     `json:"personnel_active"`
	WeekAssignments     int     `json:"week_assignments"`
	PendingReplacements int     `json:"pending_replacements"`
	CoverageRate        float64 `json:"coverage_rate"` // 百分比，1 位小数
}

// CoverageRequest 覆盖率查询参数
type CoverageRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
}

// CoverageResponse 覆盖率统计
type CoverageResponse struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	RequiredTotal int     `json:"required_total"`
	CoveredTotal  int     `json:"covered_total"` // Σ min(实排, 需求)
	CoverageRate  float64 `json:"coverage_rate"`
}

// MonthlyHoursRequest 月度工时查询参数
type MonthlyHoursRequest struct {
	Year  int `form:"year"  binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// UserHoursEntry 单人月度工时
type UserHoursEntry struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Grade          string  `json:"grade"`
	EmploymentType string  `json:"employment_type"`
	Hours          float64 `json:"hours"`
	Assignments    int     `json:"assignments"`
}

// MonthlyHoursResponse 月度工时统计（升序，用于均衡核查）
type MonthlyHoursResponse struct {
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Entries []UserHoursEntry `json:"entries"`
}

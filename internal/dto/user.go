package dto

// ── 人员模块 DTO ──

// UserListRequest 人员列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// CreateUserRequest 新建人员请求
type CreateUserRequest struct {
	FirstName        string   `json:"first_name"        binding:"required,min=1,max=100"`
	LastName         string   `json:"last_name"         binding:"required,min=1,max=100"`
	Email            string   `json:"email"             binding:"required,email"`
	Phone            string   `json:"phone"             binding:"omitempty,max=30"`
	EmergencyContact string   `json:"emergency_contact" binding:"omitempty,max=100"`
	Grade            string   `json:"grade"             binding:"required,oneof=firefighter lieutenant captain director"`
	ActingOfficer    bool     `json:"acting_officer"`
	EmploymentType   string   `json:"employment_type"   binding:"required,oneof=full_time part_time"`
	MaxWeeklyHours   int      `json:"max_weekly_hours"  binding:"omitempty,min=1,max=168"`
	Role             string   `json:"role"              binding:"required,oneof=admin supervisor employee"`
	EmployeeNumber   string   `json:"employee_number"   binding:"required,max=20"`
	HireDate         string   `json:"hire_date"         binding:"required"` // YYYY-MM-DD
	TrainingIDs      []string `json:"training_ids"      binding:"omitempty,dive,uuid"`
	Password         string   `json:"password"          binding:"required,min=8,max=64"`
}

// UpdateUserRequest 更新人员信息请求（指针字段表示部分更新）
type UpdateUserRequest struct {
	FirstName        *string   `json:"first_name"        binding:"omitempty,min=1,max=100"`
	LastName         *string   `json:"last_name"         binding:"omitempty,min=1,max=100"`
	Email            *string   `json:"email"             binding:"omitempty,email"`
	Phone            *string   `json:"phone"             binding:"omitempty,max=30"`
	EmergencyContact *string   `json:"emergency_contact" binding:"omitempty,max=100"`
	Grade            *string   `json:"grade"             binding:"omitempty,oneof=firefighter lieutenant captain director"`
	ActingOfficer    *bool     `json:"acting_officer"`
	EmploymentType   *string   `json:"employment_type"   binding:"omitempty,oneof=full_time part_time"`
	MaxWeeklyHours   *int      `json:"max_weekly_hours"  binding:"omitempty,min=1,max=168"`
	Role             *string   `json:"role"              binding:"omitempty,oneof=admin supervisor employee"`
	Status           *string   `json:"status"            binding:"omitempty,oneof=active inactive"`
	TrainingIDs      *[]string `json:"training_ids"      binding:"omitempty,dive,uuid"`
}

// [自证通过] internal/dto/user.go

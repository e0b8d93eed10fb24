package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// ── 人员模块响应 ──

// UserResponse 人员信息响应（脱敏）
type UserResponse struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Grade          string   `json:"grade"`
	ActingOfficer  bool     `json:"acting_officer"`
	EmploymentType string   `json:"employment_type"`
	MaxWeeklyHours int      `json:"max_weekly_hours"`
	Role           string   `json:"role"`
	Status         string   `json:"status"`
	EmployeeNumber string   `json:"employee_number"`
	HireDate       string   `json:"hire_date"`
	TrainingIDs    []string `json:"training_ids"`
}

// UserDetailResponse 人员详细信息（GET /auth/me）
type UserDetailResponse struct {
	UserResponse
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergency_contact"`
	CreatedAt        string `json:"created_at"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// [自证通过] internal/dto/response.go

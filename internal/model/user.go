package model

import "time"

// 职级（有序枚举：Firefighter < Lieutenant < Captain < Director）
const (
	GradeFirefighter = "firefighter"
	GradeLieutenant  = "lieutenant"
	GradeCaptain     = "captain"
	GradeDirector    = "director"
)

// 雇佣类别
const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
)

// 账号状态
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// gradeRanks 职级排序值，越大越高
var gradeRanks = map[string]int{
	GradeFirefighter: 1,
	GradeLieutenant:  2,
	GradeCaptain:     3,
	GradeDirector:    4,
}

// GradeRank 返回职级排序值，未知职级返回 0
func GradeRank(grade string) int {
	return gradeRanks[grade]
}

// User 人员表 — 对应 users
type User struct {
	UserID           string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	LastName         string      `gorm:"type:varchar(100);not null"                     json:"last_name"`
	FirstName        string      `gorm:"type:varchar(100);not null"                     json:"first_name"`
	Email            string      `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Phone            string      `gorm:"type:varchar(30);not null;default:''"           json:"phone"`
	EmergencyContact string      `gorm:"type:varchar(100);not null;default:''"          json:"emergency_contact"`
	Grade            string      `gorm:"type:varchar(20);not null;default:'firefighter'" json:"grade"`
	ActingOfficer    bool        `gorm:"not null;default:false"                         json:"acting_officer"` // 可代理警官职能的消防员
	EmploymentType   string      `gorm:"type:varchar(20);not null;default:'part_time'"  json:"employment_type"`
	MaxWeeklyHours   int         `gorm:"not null;default:40"                            json:"max_weekly_hours"`
	Role             string      `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // admin | supervisor | employee
	Status           string      `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	EmployeeNumber   string      `gorm:"type:varchar(20);not null"                      json:"employee_number"`
	HireDate         time.Time   `gorm:"type:date;not null"                             json:"hire_date"`
	TrainingIDs      StringArray `gorm:"type:text[];not null;default:'{}'"              json:"training_ids"`
	PasswordHash     string      `gorm:"type:varchar(255);not null"                     json:"-"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 姓名展示（名 姓）
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsOfficer 是否为警官职级（Lieutenant/Captain/Director）
func (u *User) IsOfficer() bool {
	return GradeRank(u.Grade) >= gradeRanks[GradeLieutenant]
}

// IsActive 账号是否处于可排班状态
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// [自证通过] internal/model/user.go

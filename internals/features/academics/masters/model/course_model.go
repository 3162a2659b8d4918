package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:course_id" json:"course_id"`

	CourseDepartmentID uuid.UUID `gorm:"type:uuid;not null;index;column:course_department_id" json:"course_department_id"`
	CourseCode         string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_courses_code;column:course_code" json:"course_code"`
	CourseName         string    `gorm:"type:varchar(160);not null;column:course_name" json:"course_name"`
	CourseCredits      int       `gorm:"not null;default:0;column:course_credits" json:"course_credits"`

	CourseCreatedAt time.Time      `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt *time.Time     `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at,omitempty"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }

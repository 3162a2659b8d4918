package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment: pasangan unik (student, course). Data referensi read-only
// bagi ledger absensi dan sweep auto-mark.
type EnrollmentModel struct {
	EnrollmentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:enrollment_id" json:"enrollment_id"`

	EnrollmentStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_student_course,priority:1;column:enrollment_student_id" json:"enrollment_student_id"`
	EnrollmentCourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_student_course,priority:2;index;column:enrollment_course_id" json:"enrollment_course_id"`

	EnrollmentCreatedAt time.Time `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

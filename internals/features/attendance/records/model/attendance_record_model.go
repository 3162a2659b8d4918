package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// Counted menentukan apakah status dihitung "hadir" untuk persentase.
func (s AttendanceStatus) Counted() bool {
	return s == StatusPresent || s == StatusLate
}

type AttendanceSource string

const (
	SourceManual AttendanceSource = "manual"
	SourceAuto   AttendanceSource = "auto"
)

// AttendanceRecord: satu record kehadiran per (student, course, date).
// Record tidak pernah dihapus (audit trail), makanya tidak ada soft delete.
// Setelah is_locked=true, field marking beku; hanya remarks yang masih
// boleh ditambah (append-only).
type AttendanceRecordModel struct {
	AttendanceRecordID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_record_id" json:"attendance_record_id"`

	AttendanceRecordStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_student_course_date,priority:1;column:attendance_record_student_id" json:"attendance_record_student_id"`
	AttendanceRecordCourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_student_course_date,priority:2;index;column:attendance_record_course_id" json:"attendance_record_course_id"`
	AttendanceRecordDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_student_course_date,priority:3;column:attendance_record_date" json:"attendance_record_date"`

	AttendanceRecordStatus AttendanceStatus `gorm:"type:varchar(10);not null;column:attendance_record_status" json:"attendance_record_status"`
	AttendanceRecordSource AttendanceSource `gorm:"type:varchar(10);not null;column:attendance_record_source" json:"attendance_record_source"`

	// NULL = ditandai oleh sistem (auto-mark sweep).
	AttendanceRecordMarkedBy *uuid.UUID `gorm:"type:uuid;column:attendance_record_marked_by" json:"attendance_record_marked_by,omitempty"`
	AttendanceRecordMarkedAt time.Time  `gorm:"not null;column:attendance_record_marked_at" json:"attendance_record_marked_at"`

	AttendanceRecordIsLocked bool `gorm:"not null;default:false;column:attendance_record_is_locked" json:"attendance_record_is_locked"`

	// Optimistic concurrency token untuk edit manual bersamaan.
	AttendanceRecordVersion int `gorm:"not null;default:1;column:attendance_record_version" json:"attendance_record_version"`

	// Append-only log: [{"text":..,"by":..,"at":..}, ...]
	AttendanceRecordRemarks datatypes.JSON `gorm:"column:attendance_record_remarks" json:"attendance_record_remarks,omitempty"`

	AttendanceRecordCreatedAt time.Time  `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
	AttendanceRecordUpdatedAt *time.Time `gorm:"column:attendance_record_updated_at;autoUpdateTime" json:"attendance_record_updated_at,omitempty"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student: data akademik mahasiswa. Identitas login (user) dikelola
// identity provider eksternal; di sini cuma disimpan user_id-nya.
type StudentModel struct {
	StudentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_id" json:"student_id"`

	StudentUserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_students_user;column:student_user_id" json:"student_user_id"`
	StudentRegNumber string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_students_reg_number;column:student_reg_number" json:"student_reg_number"`
	StudentName      string    `gorm:"type:varchar(160);not null;column:student_name" json:"student_name"`

	StudentBatchID   uuid.UUID `gorm:"type:uuid;not null;index:idx_students_batch_section,priority:1;column:student_batch_id" json:"student_batch_id"`
	StudentSectionID uuid.UUID `gorm:"type:uuid;not null;index:idx_students_batch_section,priority:2;column:student_section_id" json:"student_section_id"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt *time.Time     `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at,omitempty"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

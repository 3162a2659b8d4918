package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Batch: angkatan dalam satu department (mis. "2024 intake").
type BatchModel struct {
	BatchID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:batch_id" json:"batch_id"`

	BatchDepartmentID uuid.UUID `gorm:"type:uuid;not null;index;column:batch_department_id" json:"batch_department_id"`
	BatchName         string    `gorm:"type:varchar(120);not null;column:batch_name" json:"batch_name"`
	BatchYear         int       `gorm:"not null;column:batch_year" json:"batch_year"`

	BatchCreatedAt time.Time      `gorm:"column:batch_created_at;autoCreateTime" json:"batch_created_at"`
	BatchUpdatedAt *time.Time     `gorm:"column:batch_updated_at;autoUpdateTime" json:"batch_updated_at,omitempty"`
	BatchDeletedAt gorm.DeletedAt `gorm:"column:batch_deleted_at;index" json:"batch_deleted_at,omitempty"`
}

func (BatchModel) TableName() string { return "batches" }

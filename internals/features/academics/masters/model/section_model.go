package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SectionModel struct {
	SectionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:section_id" json:"section_id"`

	SectionBatchID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_sections_batch_name,priority:1;column:section_batch_id" json:"section_batch_id"`
	SectionName    string    `gorm:"type:varchar(60);not null;uniqueIndex:uq_sections_batch_name,priority:2;column:section_name" json:"section_name"`

	SectionCreatedAt time.Time      `gorm:"column:section_created_at;autoCreateTime" json:"section_created_at"`
	SectionUpdatedAt *time.Time     `gorm:"column:section_updated_at;autoUpdateTime" json:"section_updated_at,omitempty"`
	SectionDeletedAt gorm.DeletedAt `gorm:"column:section_deleted_at;index" json:"section_deleted_at,omitempty"`
}

func (SectionModel) TableName() string { return "sections" }

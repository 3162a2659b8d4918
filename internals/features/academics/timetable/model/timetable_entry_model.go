package model

import (
	"time"

	"github.com/google/uuid"

	"kampusku_backend/internals/helpers/dbtime"
)

// TimetableEntry: satu slot kelas mingguan berulang.
// Unik pada (batch, section, day_of_week, start_time). Tidak ada soft delete:
// entry yang sudah dirujuk riwayat absensi dianggap immutable.
type TimetableEntryModel struct {
	TimetableEntryID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:timetable_entry_id" json:"timetable_entry_id"`

	TimetableEntryCourseID  uuid.UUID `gorm:"type:uuid;not null;index;column:timetable_entry_course_id" json:"timetable_entry_course_id"`
	TimetableEntryTeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:timetable_entry_teacher_id" json:"timetable_entry_teacher_id"`

	TimetableEntryBatchID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timetable_slot,priority:1;column:timetable_entry_batch_id" json:"timetable_entry_batch_id"`
	TimetableEntrySectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timetable_slot,priority:2;column:timetable_entry_section_id" json:"timetable_entry_section_id"`

	// 0=Minggu .. 6=Sabtu, mengikuti time.Weekday
	TimetableEntryDayOfWeek int        `gorm:"not null;uniqueIndex:uq_timetable_slot,priority:3;column:timetable_entry_day_of_week" json:"timetable_entry_day_of_week"`
	TimetableEntryStartTime dbtime.Tod `gorm:"type:time;not null;uniqueIndex:uq_timetable_slot,priority:4;column:timetable_entry_start_time" json:"timetable_entry_start_time"`
	TimetableEntryEndTime   dbtime.Tod `gorm:"type:time;not null;column:timetable_entry_end_time" json:"timetable_entry_end_time"`

	TimetableEntryCreatedAt time.Time  `gorm:"column:timetable_entry_created_at;autoCreateTime" json:"timetable_entry_created_at"`
	TimetableEntryUpdatedAt *time.Time `gorm:"column:timetable_entry_updated_at;autoUpdateTime" json:"timetable_entry_updated_at,omitempty"`
}

func (TimetableEntryModel) TableName() string { return "timetable_entries" }

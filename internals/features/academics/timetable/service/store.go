// file: internals/features/academics/timetable/service/store.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/academics/timetable/model"
)

type GormEntryStore struct {
	DB *gorm.DB
}

func NewGormEntryStore(db *gorm.DB) *GormEntryStore {
	return &GormEntryStore{DB: db}
}

var _ EntryStore = (*GormEntryStore)(nil)

func (s *GormEntryStore) EntriesForSectionOnDay(ctx context.Context, batchID, sectionID uuid.UUID, day time.Weekday) ([]model.TimetableEntryModel, error) {
	var rows []model.TimetableEntryModel
	err := s.DB.WithContext(ctx).
		Where("timetable_entry_batch_id = ? AND timetable_entry_section_id = ? AND timetable_entry_day_of_week = ?",
			batchID, sectionID, int(day)).
		Order("timetable_entry_start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormEntryStore) EntriesOnDay(ctx context.Context, day time.Weekday) ([]model.TimetableEntryModel, error) {
	var rows []model.TimetableEntryModel
	err := s.DB.WithContext(ctx).
		Where("timetable_entry_day_of_week = ?", int(day)).
		Order("timetable_entry_start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormEntryStore) AssignmentExists(ctx context.Context, teacherID, courseID, sectionID uuid.UUID) (bool, error) {
	var cnt int64
	err := s.DB.WithContext(ctx).Model(&model.TimetableEntryModel{}).
		Where("timetable_entry_teacher_id = ? AND timetable_entry_course_id = ? AND timetable_entry_section_id = ?",
			teacherID, courseID, sectionID).
		Count(&cnt).Error
	return cnt > 0, err
}

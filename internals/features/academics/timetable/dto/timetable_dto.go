// file: internals/features/academics/timetable/dto/timetable_dto.go
package dto

import (
	"fmt"

	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/timetable/model"
	"kampusku_backend/internals/helpers/dbtime"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateTimetableEntryRequest struct {
	TimetableEntryCourseID  uuid.UUID `json:"timetable_entry_course_id" validate:"required"`
	TimetableEntryTeacherID uuid.UUID `json:"timetable_entry_teacher_id" validate:"required"`
	TimetableEntryBatchID   uuid.UUID `json:"timetable_entry_batch_id" validate:"required"`
	TimetableEntrySectionID uuid.UUID `json:"timetable_entry_section_id" validate:"required"`

	TimetableEntryDayOfWeek int    `json:"timetable_entry_day_of_week" validate:"min=0,max=6"`
	TimetableEntryStartTime string `json:"timetable_entry_start_time" validate:"required"` // "HH:MM[:SS]"
	TimetableEntryEndTime   string `json:"timetable_entry_end_time" validate:"required"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r CreateTimetableEntryRequest) ToModel() (*m.TimetableEntryModel, error) {
	start, err := dbtime.Parse(r.TimetableEntryStartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time tidak valid: %w", err)
	}
	end, err := dbtime.Parse(r.TimetableEntryEndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time tidak valid: %w", err)
	}
	if !start.BeforeTod(end) {
		return nil, fmt.Errorf("start_time harus sebelum end_time")
	}
	return &m.TimetableEntryModel{
		TimetableEntryCourseID:  r.TimetableEntryCourseID,
		TimetableEntryTeacherID: r.TimetableEntryTeacherID,
		TimetableEntryBatchID:   r.TimetableEntryBatchID,
		TimetableEntrySectionID: r.TimetableEntrySectionID,
		TimetableEntryDayOfWeek: r.TimetableEntryDayOfWeek,
		TimetableEntryStartTime: start,
		TimetableEntryEndTime:   end,
	}, nil
}

package dto

import (
	"time"

	"github.com/google/uuid"

	"kampusku_backend/internals/features/attendance/records/model"
	"kampusku_backend/internals/features/attendance/records/service"
	"kampusku_backend/internals/helpers/dbtime"
)

/* =========================
   Requests
========================= */

type MarkAttendanceRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	CourseID  uuid.UUID `json:"course_id" validate:"required"`
	// "2006-01-02"; kosong = hari ini
	Date            string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status          string  `json:"status" validate:"required,oneof=present absent late"`
	ExpectedVersion *int    `json:"expected_version" validate:"omitempty,min=1"`
	Remark          *string `json:"remark" validate:"omitempty,max=500"`
}

func (r MarkAttendanceRequest) ToInput() (service.MarkInput, error) {
	in := service.MarkInput{
		StudentID:       r.StudentID,
		CourseID:        r.CourseID,
		Status:          model.AttendanceStatus(r.Status),
		Source:          model.SourceManual,
		ExpectedVersion: r.ExpectedVersion,
		Remark:          r.Remark,
	}
	if r.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", r.Date, time.UTC)
		if err != nil {
			return service.MarkInput{}, err
		}
		in.Date = d
	}
	return in, nil
}

// Self-mark student: course saja, sisanya ditentukan server.
type SelfMarkRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
}

type AppendRemarkRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	CourseID  uuid.UUID `json:"course_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Text      string    `json:"text" validate:"required,max=500"`
}

/* =========================
   Responses
========================= */

type AttendanceRecordResponse struct {
	AttendanceRecordID       uuid.UUID        `json:"attendance_record_id"`
	AttendanceRecordStudent  uuid.UUID        `json:"attendance_record_student_id"`
	AttendanceRecordCourse   uuid.UUID        `json:"attendance_record_course_id"`
	AttendanceRecordDate     string           `json:"attendance_record_date"`
	AttendanceRecordStatus   string           `json:"attendance_record_status"`
	AttendanceRecordSource   string           `json:"attendance_record_source"`
	AttendanceRecordMarkedBy *uuid.UUID       `json:"attendance_record_marked_by"`
	AttendanceRecordMarkedAt time.Time        `json:"attendance_record_marked_at"`
	AttendanceRecordIsLocked bool             `json:"attendance_record_is_locked"`
	AttendanceRecordVersion  int              `json:"attendance_record_version"`
	Remarks                  []service.Remark `json:"remarks,omitempty"`
	// Dievaluasi saat respons dibuat; jangan di-cache di client.
	Editable bool `json:"editable"`
}

func ToAttendanceRecordResponse(rec *model.AttendanceRecordModel, editable bool) AttendanceRecordResponse {
	resp := AttendanceRecordResponse{
		AttendanceRecordID:       rec.AttendanceRecordID,
		AttendanceRecordStudent:  rec.AttendanceRecordStudentID,
		AttendanceRecordCourse:   rec.AttendanceRecordCourseID,
		AttendanceRecordDate:     dbtime.DateOnly(rec.AttendanceRecordDate).Format("2006-01-02"),
		AttendanceRecordStatus:   string(rec.AttendanceRecordStatus),
		AttendanceRecordSource:   string(rec.AttendanceRecordSource),
		AttendanceRecordMarkedBy: rec.AttendanceRecordMarkedBy,
		AttendanceRecordMarkedAt: rec.AttendanceRecordMarkedAt,
		AttendanceRecordIsLocked: rec.AttendanceRecordIsLocked,
		AttendanceRecordVersion:  rec.AttendanceRecordVersion,
		Editable:                 editable,
	}
	resp.Remarks, _ = service.DecodeRemarks(rec.AttendanceRecordRemarks)
	return resp
}

type MarkAttendanceResponse struct {
	Outcome string                   `json:"outcome"`
	Record  AttendanceRecordResponse `json:"record"`
}

package dto

import (
	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/enrollments/model"
)

type CreateEnrollmentRequest struct {
	EnrollmentStudentID uuid.UUID `json:"enrollment_student_id" validate:"required"`
	EnrollmentCourseID  uuid.UUID `json:"enrollment_course_id" validate:"required"`
}

// Bulk enroll satu section ke satu course.
type BulkEnrollRequest struct {
	CourseID   uuid.UUID   `json:"course_id" validate:"required"`
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1,dive,required"`
}

func (r CreateEnrollmentRequest) ToModel() *m.EnrollmentModel {
	return &m.EnrollmentModel{
		EnrollmentStudentID: r.EnrollmentStudentID,
		EnrollmentCourseID:  r.EnrollmentCourseID,
	}
}

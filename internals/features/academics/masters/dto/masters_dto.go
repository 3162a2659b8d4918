// file: internals/features/academics/masters/dto/masters_dto.go
package dto

import (
	"github.com/google/uuid"

	m "kampusku_backend/internals/features/academics/masters/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateDepartmentRequest struct {
	DepartmentName string `json:"department_name" validate:"required,max=120"`
	DepartmentCode string `json:"department_code" validate:"required,max=20"`
}

type UpdateDepartmentRequest struct {
	DepartmentName *string `json:"department_name" validate:"omitempty,max=120"`
	DepartmentCode *string `json:"department_code" validate:"omitempty,max=20"`
}

type CreateBatchRequest struct {
	BatchDepartmentID uuid.UUID `json:"batch_department_id" validate:"required"`
	BatchName         string    `json:"batch_name" validate:"required,max=120"`
	BatchYear         int       `json:"batch_year" validate:"required,min=2000,max=2100"`
}

type CreateSectionRequest struct {
	SectionBatchID uuid.UUID `json:"section_batch_id" validate:"required"`
	SectionName    string    `json:"section_name" validate:"required,max=60"`
}

type CreateCourseRequest struct {
	CourseDepartmentID uuid.UUID `json:"course_department_id" validate:"required"`
	CourseCode         string    `json:"course_code" validate:"required,max=20"`
	CourseName         string    `json:"course_name" validate:"required,max=160"`
	CourseCredits      int       `json:"course_credits" validate:"omitempty,min=0,max=30"`
}

type CreateStudentRequest struct {
	StudentUserID    uuid.UUID `json:"student_user_id" validate:"required"`
	StudentRegNumber string    `json:"student_reg_number" validate:"required,max=30"`
	StudentName      string    `json:"student_name" validate:"required,max=160"`
	StudentBatchID   uuid.UUID `json:"student_batch_id" validate:"required"`
	StudentSectionID uuid.UUID `json:"student_section_id" validate:"required"`
}

type UpdateStudentRequest struct {
	StudentRegNumber *string    `json:"student_reg_number" validate:"omitempty,max=30"`
	StudentName      *string    `json:"student_name" validate:"omitempty,max=160"`
	StudentBatchID   *uuid.UUID `json:"student_batch_id" validate:"omitempty"`
	StudentSectionID *uuid.UUID `json:"student_section_id" validate:"omitempty"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r CreateDepartmentRequest) ToModel() *m.DepartmentModel {
	return &m.DepartmentModel{
		DepartmentName: r.DepartmentName,
		DepartmentCode: r.DepartmentCode,
	}
}

func (r CreateBatchRequest) ToModel() *m.BatchModel {
	return &m.BatchModel{
		BatchDepartmentID: r.BatchDepartmentID,
		BatchName:         r.BatchName,
		BatchYear:         r.BatchYear,
	}
}

func (r CreateSectionRequest) ToModel() *m.SectionModel {
	return &m.SectionModel{
		SectionBatchID: r.SectionBatchID,
		SectionName:    r.SectionName,
	}
}

func (r CreateCourseRequest) ToModel() *m.CourseModel {
	return &m.CourseModel{
		CourseDepartmentID: r.CourseDepartmentID,
		CourseCode:         r.CourseCode,
		CourseName:         r.CourseName,
		CourseCredits:      r.CourseCredits,
	}
}

func (r CreateStudentRequest) ToModel() *m.StudentModel {
	return &m.StudentModel{
		StudentUserID:    r.StudentUserID,
		StudentRegNumber: r.StudentRegNumber,
		StudentName:      r.StudentName,
		StudentBatchID:   r.StudentBatchID,
		StudentSectionID: r.StudentSectionID,
	}
}

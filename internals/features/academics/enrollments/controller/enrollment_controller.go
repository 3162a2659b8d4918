// file: internals/features/academics/enrollments/controller/enrollment_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kampusku_backend/internals/features/academics/enrollments/dto"
	"kampusku_backend/internals/features/academics/enrollments/model"
	helper "kampusku_backend/internals/helpers"
)

type EnrollmentController struct {
	DB *gorm.DB
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{DB: db}
}

var validate = validator.New()

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}

/* ===================== CREATE ===================== */
// POST /enrollments
func (ctrl *EnrollmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	mdl := req.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Student sudah terdaftar pada course ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat enrollment")
	}
	return helper.JsonCreated(c, "Enrollment berhasil dibuat", mdl)
}

/* ===================== BULK ===================== */
// POST /enrollments/bulk: enroll banyak student sekaligus ke satu course.
// Pasangan yang sudah ada di-skip (ON CONFLICT DO NOTHING).
func (ctrl *EnrollmentController) BulkEnroll(c *fiber.Ctx) error {
	var req dto.BulkEnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	rows := make([]model.EnrollmentModel, 0, len(req.StudentIDs))
	for _, sid := range req.StudentIDs {
		rows = append(rows, model.EnrollmentModel{
			EnrollmentStudentID: sid,
			EnrollmentCourseID:  req.CourseID,
		})
	}

	res := ctrl.DB.WithContext(c.UserContext()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_student_id"}, {Name: "enrollment_course_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal bulk enroll")
	}

	return helper.JsonCreated(c, "Bulk enroll selesai", fiber.Map{
		"requested": len(req.StudentIDs),
		"created":   res.RowsAffected,
	})
}

/* ===================== LIST ===================== */
// GET /enrollments?course_id=&student_id=
func (ctrl *EnrollmentController) List(c *fiber.Ctx) error {
	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.EnrollmentModel{})

	if v := c.Query("course_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "course_id tidak valid")
		}
		q = q.Where("enrollment_course_id = ?", id)
	}
	if v := c.Query("student_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
		}
		q = q.Where("enrollment_student_id = ?", id)
	}

	var rows []model.EnrollmentModel
	if err := q.Order("enrollment_created_at ASC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", rows)
}

/* ===================== DELETE ===================== */
// DELETE /enrollments/:id
func (ctrl *EnrollmentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	res := ctrl.DB.WithContext(c.UserContext()).Delete(&model.EnrollmentModel{}, "enrollment_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Enrollment tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Enrollment berhasil dihapus", fiber.Map{"enrollment_id": id})
}

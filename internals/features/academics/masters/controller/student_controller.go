// file: internals/features/academics/masters/controller/student_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/academics/masters/dto"
	"kampusku_backend/internals/features/academics/masters/model"
	helper "kampusku_backend/internals/helpers"
)

type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db}
}

/* ===================== CREATE ===================== */
// POST /students
func (ctrl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// pastikan section milik batch yang diberikan
	var cnt int64
	if err := ctrl.DB.WithContext(c.UserContext()).Model(&model.SectionModel{}).
		Where("section_id = ? AND section_batch_id = ?", req.StudentSectionID, req.StudentBatchID).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Section tidak ditemukan pada batch tersebut")
	}

	mdl := req.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Nomor registrasi / user sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat student")
	}
	return helper.JsonCreated(c, "Student berhasil dibuat", mdl)
}

/* ===================== LIST ===================== */
// GET /students?batch_id=&section_id=
func (ctrl *StudentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.StudentModel{})
	if b := c.Query("batch_id"); b != "" {
		id, err := uuid.Parse(b)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		q = q.Where("student_batch_id = ?", id)
	}
	if s := c.Query("section_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "section_id tidak valid")
		}
		q = q.Where("student_section_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var rows []model.StudentModel
	if err := q.Order("student_reg_number ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

/* ===================== DETAIL ===================== */
// GET /students/:id
func (ctrl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var mdl model.StudentModel
	if err := ctrl.DB.WithContext(c.UserContext()).First(&mdl, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", mdl)
}

/* ===================== UPDATE ===================== */
// PATCH /students/:id
func (ctrl *StudentController) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var mdl model.StudentModel
	if err := ctrl.DB.WithContext(c.UserContext()).First(&mdl, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if req.StudentRegNumber != nil {
		mdl.StudentRegNumber = *req.StudentRegNumber
	}
	if req.StudentName != nil {
		mdl.StudentName = *req.StudentName
	}
	if req.StudentBatchID != nil {
		mdl.StudentBatchID = *req.StudentBatchID
	}
	if req.StudentSectionID != nil {
		mdl.StudentSectionID = *req.StudentSectionID
	}

	if err := ctrl.DB.WithContext(c.UserContext()).Save(&mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Nomor registrasi sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui student")
	}
	return helper.JsonUpdated(c, "Student berhasil diperbarui", mdl)
}

// file: internals/features/academics/masters/controller/masters_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/academics/masters/dto"
	"kampusku_backend/internals/features/academics/masters/model"
	helper "kampusku_backend/internals/helpers"
)

type MastersController struct {
	DB *gorm.DB
}

func NewMastersController(db *gorm.DB) *MastersController {
	return &MastersController{DB: db}
}

var validate = validator.New()

// isDuplicateKey: cek pelanggaran unique Postgres (SQLSTATE 23505).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}

func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	return id, nil
}

/* ===================== DEPARTMENTS ===================== */

// POST /departments
func (ctrl *MastersController) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	mdl := req.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Kode department sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat department")
	}
	return helper.JsonCreated(c, "Department berhasil dibuat", mdl)
}

// GET /departments
func (ctrl *MastersController) ListDepartments(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.DepartmentModel{})
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.DepartmentModel
	if err := q.Order("department_code ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PUT /departments/:id
func (ctrl *MastersController) UpdateDepartment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var mdl model.DepartmentModel
	if err := ctrl.DB.WithContext(c.UserContext()).First(&mdl, "department_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Department tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if req.DepartmentName != nil {
		mdl.DepartmentName = *req.DepartmentName
	}
	if req.DepartmentCode != nil {
		mdl.DepartmentCode = *req.DepartmentCode
	}

	if err := ctrl.DB.WithContext(c.UserContext()).Save(&mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Kode department sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui department")
	}
	return helper.JsonUpdated(c, "Department berhasil diperbarui", mdl)
}

// DELETE /departments/:id (soft delete)
func (ctrl *MastersController) DeleteDepartment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctrl.DB.WithContext(c.UserContext()).Delete(&model.DepartmentModel{}, "department_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Department tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Department berhasil dihapus", fiber.Map{"department_id": id})
}

/* ===================== BATCHES ===================== */

// POST /batches
func (ctrl *MastersController) CreateBatch(c *fiber.Ctx) error {
	var req dto.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// pastikan department ada
	var cnt int64
	if err := ctrl.DB.WithContext(c.UserContext()).Model(&model.DepartmentModel{}).
		Where("department_id = ?", req.BatchDepartmentID).Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Department tidak ditemukan")
	}

	mdl := req.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(mdl).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat batch")
	}
	return helper.JsonCreated(c, "Batch berhasil dibuat", mdl)
}

// GET /batches?department_id=
func (ctrl *MastersController) ListBatches(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.BatchModel{})
	if dep := c.Query("department_id"); dep != "" {
		depID, err := uuid.Parse(dep)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "department_id tidak valid")
		}
		q = q.Where("batch_department_id = ?", depID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var rows []model.BatchModel
	if err := q.Order("batch_year DESC, batch_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// DELETE /batches/:id
func (ctrl *MastersController) DeleteBatch(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctrl.DB.WithContext(c.UserContext()).Delete(&model.BatchModel{}, "batch_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Batch tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Batch berhasil dihapus", fiber.Map{"batch_id": id})
}

/* ===================== SECTIONS ===================== */

// POST /sections
func (ctrl *MastersController) CreateSection(c *fiber.Ctx) error {
	var req dto.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	mdl := req.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Nama section sudah dipakai pada batch ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat section")
	}
	return helper.JsonCreated(c, "Section berhasil dibuat", mdl)
}

// GET /sections?batch_id=
func (ctrl *MastersController) ListSections(c *fiber.Ctx) error {
	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.SectionModel{})
	if b := c.Query("batch_id"); b != "" {
		batchID, err := uuid.Parse(b)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		q = q.Where("section_batch_id = ?", batchID)
	}
	var rows []model.SectionModel
	if err := q.Order("section_name ASC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", rows)
}

// DELETE /sections/:id
func (ctrl *MastersController) DeleteSection(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctrl.DB.WithContext(c.UserContext()).Delete(&model.SectionModel{}, "section_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Section tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Section berhasil dihapus", fiber.Map{"section_id": id})
}

/* ===================== COURSES ===================== */

// POST /courses
func (ctrl *MastersController) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	mdl := req.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Kode course sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat course")
	}
	return helper.JsonCreated(c, "Course berhasil dibuat", mdl)
}

// GET /courses?department_id=
func (ctrl *MastersController) ListCourses(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.CourseModel{})
	if dep := c.Query("department_id"); dep != "" {
		depID, err := uuid.Parse(dep)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "department_id tidak valid")
		}
		q = q.Where("course_department_id = ?", depID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var rows []model.CourseModel
	if err := q.Order("course_code ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// DELETE /courses/:id
func (ctrl *MastersController) DeleteCourse(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctrl.DB.WithContext(c.UserContext()).Delete(&model.CourseModel{}, "course_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Course berhasil dihapus", fiber.Map{"course_id": id})
}

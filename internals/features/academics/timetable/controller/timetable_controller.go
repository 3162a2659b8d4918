// file: internals/features/academics/timetable/controller/timetable_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	mastersModel "kampusku_backend/internals/features/academics/masters/model"
	"kampusku_backend/internals/features/academics/timetable/dto"
	"kampusku_backend/internals/features/academics/timetable/model"
	"kampusku_backend/internals/features/academics/timetable/service"
	helper "kampusku_backend/internals/helpers"
)

type TimetableController struct {
	DB       *gorm.DB
	Resolver *service.Resolver
}

func NewTimetableController(db *gorm.DB) *TimetableController {
	return &TimetableController{
		DB:       db,
		Resolver: service.NewResolver(service.NewGormEntryStore(db)),
	}
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
// POST /timetable
func (ctrl *TimetableController) Create(c *fiber.Ctx) error {
	var req dto.CreateTimetableEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	mdl, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctrl.DB.WithContext(c.UserContext()).Create(mdl).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Slot jadwal sudah ada untuk batch/section/hari/jam mulai tersebut")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat entry jadwal")
	}
	return helper.JsonCreated(c, "Entry jadwal berhasil dibuat", mdl)
}

/* ===================== LIST ===================== */
// GET /timetable?batch_id=&section_id=&day=
func (ctrl *TimetableController) List(c *fiber.Ctx) error {
	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.TimetableEntryModel{})

	if b := c.Query("batch_id"); b != "" {
		id, err := uuid.Parse(b)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		q = q.Where("timetable_entry_batch_id = ?", id)
	}
	if s := c.Query("section_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "section_id tidak valid")
		}
		q = q.Where("timetable_entry_section_id = ?", id)
	}
	if d := c.Query("day"); d != "" {
		q = q.Where("timetable_entry_day_of_week = ?", c.QueryInt("day"))
	}

	var rows []model.TimetableEntryModel
	if err := q.Order("timetable_entry_day_of_week ASC, timetable_entry_start_time ASC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", rows)
}

/* ===================== DELETE ===================== */
// DELETE /timetable/:id
func (ctrl *TimetableController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	res := ctrl.DB.WithContext(c.UserContext()).Delete(&model.TimetableEntryModel{}, "timetable_entry_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Entry jadwal tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Entry jadwal berhasil dihapus", fiber.Map{"timetable_entry_id": id})
}

/* ===================== TEACHER: MY TIMETABLE ===================== */
// GET /timetable/me
func (ctrl *TimetableController) ListMine(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var rows []model.TimetableEntryModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("timetable_entry_teacher_id = ?", teacherID).
		Order("timetable_entry_day_of_week ASC, timetable_entry_start_time ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", rows)
}

/* ===================== STUDENT: CURRENT CLASS ===================== */
// GET /timetable/current: kelas yang sedang berjalan untuk student login.
func (ctrl *TimetableController) CurrentClass(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var student mastersModel.StudentModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		First(&student, "student_user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Data student tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	entry, err := ctrl.Resolver.FindCurrentClass(c.UserContext(),
		student.StudentBatchID, student.StudentSectionID, ctrl.Resolver.Clock())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if entry == nil {
		return helper.JsonOK(c, "Tidak ada kelas yang sedang berjalan", nil)
	}
	return helper.JsonOK(c, "", entry)
}

// file: internals/features/attendance/records/controller/attendance_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	ttService "kampusku_backend/internals/features/academics/timetable/service"
	"kampusku_backend/internals/features/attendance/records/dto"
	"kampusku_backend/internals/features/attendance/records/model"
	"kampusku_backend/internals/features/attendance/records/service"
	helper "kampusku_backend/internals/helpers"
)

type AttendanceController struct {
	DB     *gorm.DB
	Ledger *service.Ledger
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	resolver := ttService.NewResolver(ttService.NewGormEntryStore(db))
	return &AttendanceController{
		DB: db,
		Ledger: service.NewLedger(
			service.NewGormStore(db),
			service.NewGormDirectory(db),
			resolver,
			configs.EditWindowDays(),
		),
	}
}

var validate = validator.New()

// ledgerError memetakan sentinel error service ke status HTTP.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrLocked):
		return helper.JsonError(c, fiber.StatusConflict, "Record sudah terkunci dan tidak bisa diubah")
	case errors.Is(err, service.ErrVersionConflict):
		return helper.JsonError(c, fiber.StatusConflict, "Record sudah berubah, muat ulang dulu")
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Data tidak ditemukan")
	case errors.Is(err, service.ErrNotEnrolled):
		return helper.JsonError(c, fiber.StatusBadRequest, "Student tidak terdaftar di course tersebut")
	case errors.Is(err, service.ErrNotAssigned):
		return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak mengajar course ini untuk section tersebut")
	case errors.Is(err, service.ErrForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak diizinkan")
	case errors.Is(err, service.ErrNoOngoingClass):
		return helper.JsonError(c, fiber.StatusConflict, "Tidak ada kelas course tersebut yang sedang berjalan")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

func (ctrl *AttendanceController) markResponse(res service.MarkResult) dto.MarkAttendanceResponse {
	return dto.MarkAttendanceResponse{
		Outcome: string(res.Outcome),
		Record:  dto.ToAttendanceRecordResponse(res.Record, ctrl.Ledger.CanEdit(res.Record.AttendanceRecordDate)),
	}
}

/* ===================== MARK (teacher/admin) ===================== */
// POST /attendance/mark
func (ctrl *AttendanceController) Mark(c *fiber.Ctx) error {
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal tidak valid")
	}

	actor, err := actorFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := ctrl.Ledger.MarkAsActor(c.UserContext(), actor, in)
	if err != nil {
		return ledgerError(c, err)
	}
	if res.Outcome == service.OutcomeCreated {
		return helper.JsonCreated(c, "Presensi berhasil dicatat", ctrl.markResponse(res))
	}
	return helper.JsonUpdated(c, "Presensi berhasil diperbarui", ctrl.markResponse(res))
}

/* ===================== SELF-MARK (student) ===================== */
// POST /attendance/self: student menandai dirinya hadir pada kelas berjalan.
func (ctrl *AttendanceController) SelfMark(c *fiber.Ctx) error {
	var req dto.SelfMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	actor, err := actorFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	st, err := ctrl.Ledger.Dir.StudentByUserID(c.UserContext(), actor.UserID)
	if err != nil {
		return ledgerError(c, err)
	}

	res, err := ctrl.Ledger.MarkAsActor(c.UserContext(), actor, service.MarkInput{
		StudentID: st.StudentID,
		CourseID:  req.CourseID,
		Status:    model.StatusPresent,
		Source:    model.SourceAuto,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	if res.Outcome == service.OutcomeCreated {
		return helper.JsonCreated(c, "Presensi berhasil dicatat", ctrl.markResponse(res))
	}
	return helper.JsonUpdated(c, "Presensi diperbarui", ctrl.markResponse(res))
}

/* ===================== REMARK ===================== */
// POST /attendance/remark: boleh pada record terkunci.
func (ctrl *AttendanceController) AppendRemark(c *fiber.Ctx) error {
	var req dto.AppendRemarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal tidak valid")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rec, err := ctrl.Ledger.AppendRemark(c.UserContext(), req.StudentID, req.CourseID, date, &userID, req.Text)
	if err != nil {
		return ledgerError(c, err)
	}
	return helper.JsonUpdated(c, "Remark ditambahkan",
		dto.ToAttendanceRecordResponse(rec, ctrl.Ledger.CanEdit(rec.AttendanceRecordDate)))
}

/* ===================== LIST ===================== */

func (ctrl *AttendanceController) listRecords(c *fiber.Ctx, base *gorm.DB) error {
	if cid := c.Query("course_id"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "course_id tidak valid")
		}
		base = base.Where("attendance_record_course_id = ?", id)
	}
	if from := c.Query("from"); from != "" {
		d, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "from tidak valid")
		}
		base = base.Where("attendance_record_date >= ?", d)
	}
	if to := c.Query("to"); to != "" {
		d, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "to tidak valid")
		}
		base = base.Where("attendance_record_date <= ?", d)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.AttendanceRecordModel
	if err := base.
		Order("attendance_record_date DESC, attendance_record_marked_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.AttendanceRecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToAttendanceRecordResponse(&rows[i], ctrl.Ledger.CanEdit(rows[i].AttendanceRecordDate)))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /attendance/students/:id?course_id=&from=&to=
func (ctrl *AttendanceController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	base := ctrl.DB.WithContext(c.UserContext()).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_student_id = ?", studentID)
	return ctrl.listRecords(c, base)
}

// GET /attendance/courses/:id?date=
func (ctrl *AttendanceController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	base := ctrl.DB.WithContext(c.UserContext()).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_course_id = ?", courseID)
	if d := c.Query("date"); d != "" {
		date, err := time.ParseInLocation("2006-01-02", d, time.UTC)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "date tidak valid")
		}
		base = base.Where("attendance_record_date = ?", date)
	}
	return ctrl.listRecords(c, base)
}

// GET /attendance/me: riwayat presensi student login.
func (ctrl *AttendanceController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	st, err := ctrl.Ledger.Dir.StudentByUserID(c.UserContext(), userID)
	if err != nil {
		return ledgerError(c, err)
	}
	base := ctrl.DB.WithContext(c.UserContext()).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_student_id = ?", st.StudentID)
	return ctrl.listRecords(c, base)
}

/* ===================== ADMIN: LOCK SWEEP ===================== */
// POST /attendance/sweeps/lock: trigger manual, sehari-hari jalan via scheduler.
func (ctrl *AttendanceController) RunLockSweep(c *fiber.Ctx) error {
	locked, err := ctrl.Ledger.LockOld(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Lock sweep selesai", fiber.Map{"locked": locked})
}

func actorFromToken(c *fiber.Ctx) (service.Actor, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return service.Actor{}, err
	}
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserID: userID, Role: role}, nil
}

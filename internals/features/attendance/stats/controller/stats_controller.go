// file: internals/features/attendance/stats/controller/stats_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	mastersModel "kampusku_backend/internals/features/academics/masters/model"
	"kampusku_backend/internals/features/attendance/stats/service"
	helper "kampusku_backend/internals/helpers"
)

type StatsController struct {
	DB         *gorm.DB
	Aggregator *service.Aggregator
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{
		DB:         db,
		Aggregator: service.NewAggregator(service.NewGormSource(db)),
	}
}

/* ===================== STUDENT REPORT ===================== */
// GET /stats/students/:id: persentase per course + overall.
func (ctrl *StatsController) StudentReport(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var exists int64
	if err := ctrl.DB.WithContext(c.UserContext()).
		Model(&mastersModel.StudentModel{}).
		Where("student_id = ?", studentID).
		Count(&exists).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if exists == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Data student tidak ditemukan")
	}

	report, err := ctrl.Aggregator.StudentReport(c.UserContext(), studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", report)
}

/* ===================== COURSE STANDINGS ===================== */
// GET /stats/courses/:id: persentase per student, dengan nama & NIM.
func (ctrl *StatsController) CourseStandings(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	standings, err := ctrl.Aggregator.CourseStandings(c.UserContext(), courseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if len(standings) == 0 {
		return helper.JsonOK(c, "", []fiber.Map{})
	}

	ids := make([]uuid.UUID, 0, len(standings))
	for _, st := range standings {
		ids = append(ids, st.StudentID)
	}
	var students []mastersModel.StudentModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("student_id IN ?", ids).
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	names := make(map[uuid.UUID]*mastersModel.StudentModel, len(students))
	for i := range students {
		names[students[i].StudentID] = &students[i]
	}

	out := make([]fiber.Map, 0, len(standings))
	for _, st := range standings {
		row := fiber.Map{
			"student_id": st.StudentID,
			"counts":     st.Counts,
			"percentage": st.Percentage,
		}
		if s, ok := names[st.StudentID]; ok {
			row["student_name"] = s.StudentName
			row["student_reg_number"] = s.StudentRegNumber
		}
		out = append(out, row)
	}
	return helper.JsonOK(c, "", out)
}

/* ===================== STUDENT: MY REPORT ===================== */
// GET /stats/me: report untuk student login.
func (ctrl *StatsController) MyReport(c *fiber.Ctx) error {
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

	report, err := ctrl.Aggregator.StudentReport(c.UserContext(), student.StudentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", report)
}

package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	statsCtrl "kampusku_backend/internals/features/attendance/stats/controller"
)

func StatsStaffRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := statsCtrl.NewStatsController(db)

	g := r.Group("/stats")
	g.Get("/students/:id", ctrl.StudentReport)
	g.Get("/courses/:id", ctrl.CourseStandings)
}

func StatsStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := statsCtrl.NewStatsController(db)

	g := r.Group("/stats")
	g.Get("/me", ctrl.MyReport)
}

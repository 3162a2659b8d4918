package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attCtrl "kampusku_backend/internals/features/attendance/records/controller"
	"kampusku_backend/internals/middlewares"
)

func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := attCtrl.NewAttendanceController(db)

	g := r.Group("/attendance")
	g.Post("/mark", middlewares.MarkRateLimiter(), ctrl.Mark)
	g.Post("/remark", ctrl.AppendRemark)
	g.Get("/students/:id", ctrl.ListByStudent)
	g.Get("/courses/:id", ctrl.ListByCourse)
	g.Post("/sweeps/lock", ctrl.RunLockSweep)
}

func AttendanceTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := attCtrl.NewAttendanceController(db)

	g := r.Group("/attendance")
	g.Post("/mark", middlewares.MarkRateLimiter(), ctrl.Mark)
	g.Post("/remark", ctrl.AppendRemark)
	g.Get("/students/:id", ctrl.ListByStudent)
	g.Get("/courses/:id", ctrl.ListByCourse)
}

func AttendanceStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := attCtrl.NewAttendanceController(db)

	g := r.Group("/attendance")
	g.Post("/self", middlewares.MarkRateLimiter(), ctrl.SelfMark)
	g.Get("/me", ctrl.ListMine)
}

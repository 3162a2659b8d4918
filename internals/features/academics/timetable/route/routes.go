package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ttCtrl "kampusku_backend/internals/features/academics/timetable/controller"
)

func TimetableAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := ttCtrl.NewTimetableController(db)

	g := r.Group("/timetable")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Delete("/:id", ctrl.Delete)
}

func TimetableTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := ttCtrl.NewTimetableController(db)

	g := r.Group("/timetable")
	g.Get("/me", ctrl.ListMine)
}

func TimetableStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := ttCtrl.NewTimetableController(db)

	g := r.Group("/timetable")
	g.Get("/current", ctrl.CurrentClass)
}

package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrCtrl "kampusku_backend/internals/features/academics/enrollments/controller"
)

func EnrollmentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := enrCtrl.NewEnrollmentController(db)

	g := r.Group("/enrollments")
	g.Post("/", ctrl.Create)
	g.Post("/bulk", ctrl.BulkEnroll)
	g.Get("/", ctrl.List)
	g.Delete("/:id", ctrl.Delete)
}

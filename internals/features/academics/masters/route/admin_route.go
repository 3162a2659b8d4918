package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	mastersCtrl "kampusku_backend/internals/features/academics/masters/controller"
)

func MastersAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := mastersCtrl.NewMastersController(db)
	studentCtrl := mastersCtrl.NewStudentController(db)

	// =====================
	// Departments
	// =====================
	dep := r.Group("/departments")
	dep.Post("/", ctrl.CreateDepartment)
	dep.Get("/", ctrl.ListDepartments)
	dep.Put("/:id", ctrl.UpdateDepartment)
	dep.Delete("/:id", ctrl.DeleteDepartment)

	// =====================
	// Batches
	// =====================
	b := r.Group("/batches")
	b.Post("/", ctrl.CreateBatch)
	b.Get("/", ctrl.ListBatches)
	b.Delete("/:id", ctrl.DeleteBatch)

	// =====================
	// Sections
	// =====================
	s := r.Group("/sections")
	s.Post("/", ctrl.CreateSection)
	s.Get("/", ctrl.ListSections)
	s.Delete("/:id", ctrl.DeleteSection)

	// =====================
	// Courses
	// =====================
	co := r.Group("/courses")
	co.Post("/", ctrl.CreateCourse)
	co.Get("/", ctrl.ListCourses)
	co.Delete("/:id", ctrl.DeleteCourse)

	// =====================
	// Students
	// =====================
	st := r.Group("/students")
	st.Post("/", studentCtrl.Create)
	st.Get("/", studentCtrl.List)
	st.Get("/:id", studentCtrl.GetByID)
	st.Patch("/:id", studentCtrl.Update)
}

// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	enrRoute "kampusku_backend/internals/features/academics/enrollments/route"
	mastersRoute "kampusku_backend/internals/features/academics/masters/route"
	ttRoute "kampusku_backend/internals/features/academics/timetable/route"
	attRoute "kampusku_backend/internals/features/attendance/records/route"
	attScheduler "kampusku_backend/internals/features/attendance/scheduler"
	statsRoute "kampusku_backend/internals/features/attendance/stats/route"
	"kampusku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== ADMIN (/api/a) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		auth.AuthJWT(),
		auth.OnlyRoles(constants.RoleErrorAdmin("manajemen akademik"), constants.AdminOnly...),
	)
	mastersRoute.MastersAdminRoutes(admin, db)
	enrRoute.EnrollmentAdminRoutes(admin, db)
	ttRoute.TimetableAdminRoutes(admin, db)
	attRoute.AttendanceAdminRoutes(admin, db)
	attScheduler.SweepAdminRoutes(admin, db)
	statsRoute.StatsStaffRoutes(admin, db)

	// ===================== TEACHER (/api/t) =====================
	log.Println("[INFO] Setting up TEACHER group...")
	teacher := app.Group("/api/t",
		auth.AuthJWT(),
		auth.OnlyRoles(constants.RoleErrorTeacher("presensi"), constants.StaffRoles...),
	)
	ttRoute.TimetableTeacherRoutes(teacher, db)
	attRoute.AttendanceTeacherRoutes(teacher, db)
	statsRoute.StatsStaffRoutes(teacher, db)

	// ===================== STUDENT (/api/s) =====================
	log.Println("[INFO] Setting up STUDENT group...")
	student := app.Group("/api/s",
		auth.AuthJWT(),
		auth.OnlyRoles(constants.RoleErrorStudent("presensi mandiri"), constants.StudentOnly...),
	)
	ttRoute.TimetableStudentRoutes(student, db)
	attRoute.AttendanceStudentRoutes(student, db)
	statsRoute.StatsStudentRoutes(student, db)
}

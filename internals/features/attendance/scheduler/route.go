package scheduler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "kampusku_backend/internals/helpers"
)

// SweepAdminRoutes: trigger manual untuk operasional; sehari-hari sweep
// jalan sendiri via Start().
func SweepAdminRoutes(r fiber.Router, db *gorm.DB) {
	s := NewSweeper(db)

	g := r.Group("/attendance/sweeps")
	g.Post("/auto-mark", func(c *fiber.Ctx) error {
		res, err := s.AutoMarkOngoingClasses(c.UserContext(), s.Clock())
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		return helper.JsonOK(c, "Auto-mark sweep selesai", res)
	})
}

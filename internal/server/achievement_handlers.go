package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyAchievements handles GET /api/achievements
func (s *Server) GetMyAchievements(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	achievements, err := s.achievementRepo.ListByUser(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(achievements)
}

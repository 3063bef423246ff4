package server

import (
	"vibella/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard handles GET /api/leaderboard
// Returns the top ten scores for the current week (starting Sunday UTC).
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	ctx := c.Context()

	scores, err := s.scoreService.Leaderboard(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"week_start": service.WeekStart(nowUTC()),
		"scores":     scores,
	})
}

// GetMyScore handles GET /api/leaderboard/me
// Returns the caller's score row for the current week, or null when the
// user has no activity yet this week.
func (s *Server) GetMyScore(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	score, err := s.scoreService.MyScore(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"week_start": service.WeekStart(nowUTC()),
		"score":      score,
	})
}

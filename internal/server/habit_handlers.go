package server

import (
	"vibella/internal/models"
	"vibella/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SaveHabits handles PUT /api/habits/:date
// The full metric record is replaced for the given date; partial updates
// are not supported.
// @Summary Save daily habits
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param request body models.HabitMetrics true "Habit metrics"
// @Success 200 {object} models.Habit
// @Failure 400 {object} object{error=string}
// @Router /habits/{date} [put]
func (s *Server) SaveHabits(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	date := c.Params("date")

	var metrics models.HabitMetrics
	if err := c.BodyParser(&metrics); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	habit, err := s.habitService.SaveHabits(ctx, service.SaveHabitsInput{
		UserID:  userID,
		Date:    date,
		Metrics: metrics,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(habit)
}

// GetHabitDay handles GET /api/habits/:date
func (s *Server) GetHabitDay(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	date := c.Params("date")

	habit, err := s.habitService.GetDay(ctx, userID, date)
	if err != nil {
		return respondServiceError(c, err)
	}
	if habit == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Habit record", date))
	}

	return c.JSON(habit)
}

// GetHabitWeek handles GET /api/habits/week/:date
// Returns the trailing seven days of habits ending at the given date.
func (s *Server) GetHabitWeek(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	date := c.Params("date")

	summary, err := s.habitService.GetWeek(ctx, userID, date)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(summary)
}

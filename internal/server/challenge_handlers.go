package server

import (
	"vibella/internal/models"
	"vibella/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetChallenges handles GET /api/challenges
func (s *Server) GetChallenges(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	challenges, err := s.challengeService.ListChallenges(ctx, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(challenges)
}

// GetChallenge handles GET /api/challenges/:id
func (s *Server) GetChallenge(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	challenge, err := s.challengeService.GetChallenge(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(challenge)
}

// CreateChallenge handles POST /api/challenges (admin only)
// @Summary Create a challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,description=string,goal_type=string,goal_value=number,start_date=string,end_date=string} true "Challenge"
// @Success 201 {object} models.Challenge
// @Failure 400 {object} object{error=string}
// @Router /challenges [post]
func (s *Server) CreateChallenge(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		GoalType    string  `json:"goal_type"`
		GoalValue   float64 `json:"goal_value"`
		StartDate   string  `json:"start_date"`
		EndDate     string  `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	challenge, err := s.challengeService.CreateChallenge(ctx, service.CreateChallengeInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		GoalType:    req.GoalType,
		GoalValue:   req.GoalValue,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(challenge)
}

// JoinChallenge handles POST /api/challenges/:id/join
// Re-joining is a no-op that returns the existing participation.
func (s *Server) JoinChallenge(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	participant, created, err := s.challengeService.JoinChallenge(ctx, id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(participant)
}

// GetMyChallenges handles GET /api/challenges/mine
func (s *Server) GetMyChallenges(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	participants, err := s.challengeService.MyChallenges(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(participants)
}

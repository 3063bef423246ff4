package server

import (
	"vibella/internal/models"
	"vibella/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetExpertContents handles GET /api/experts
func (s *Server) GetExpertContents(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	contents, err := s.expertService.ListContent(ctx, c.Query("content_type"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(contents)
}

// GetExpertContent handles GET /api/experts/:id
// Reading an item bumps its view counter.
func (s *Server) GetExpertContent(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	content, err := s.expertService.GetContent(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(content)
}

// CreateExpertContent handles POST /api/experts (admin only)
func (s *Server) CreateExpertContent(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		ContentType  string `json:"content_type"`
		VideoURL     string `json:"video_url"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content, err := s.expertService.CreateContent(ctx, service.CreateExpertContentInput{
		UserID:       userID,
		Title:        req.Title,
		Content:      req.Content,
		ContentType:  req.ContentType,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

package service

import (
	"context"
	"log/slog"
	"strings"

	"vibella/internal/middleware"
	"vibella/internal/models"
	"vibella/internal/repository"
)

type ExpertService struct {
	expertRepo repository.ExpertContentRepository
	isAdmin    func(ctx context.Context, userID uint) (bool, error)
}

type CreateExpertContentInput struct {
	UserID       uint
	Title        string
	Content      string
	ContentType  string
	VideoURL     string
	ThumbnailURL string
}

func NewExpertService(
	expertRepo repository.ExpertContentRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ExpertService {
	return &ExpertService{expertRepo: expertRepo, isAdmin: isAdmin}
}

func (s *ExpertService) ListContent(ctx context.Context, contentType string, limit, offset int) ([]models.ExpertContent, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.expertRepo.List(ctx, contentType, limit, offset)
}

// GetContent fetches one item and bumps its view counter. A failed bump
// is logged and never blocks the read.
func (s *ExpertService) GetContent(ctx context.Context, id uint) (*models.ExpertContent, error) {
	content, err := s.expertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.expertRepo.IncrementViews(ctx, id); err != nil {
		middleware.Logger.WarnContext(ctx, "view count increment failed",
			slog.Any("content_id", id),
			slog.String("error", err.Error()))
	} else {
		content.ViewsCount++
	}

	return content, nil
}

func (s *ExpertService) CreateContent(ctx context.Context, in CreateExpertContentInput) (*models.ExpertContent, error) {
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewUnauthorizedError("Only admins can publish expert content")
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	switch contentType {
	case "article", "video", "tip":
	default:
		return nil, models.NewValidationError("Content type must be article, video, or tip")
	}
	if contentType == "video" && strings.TrimSpace(in.VideoURL) == "" {
		return nil, models.NewValidationError("Video content requires a video URL")
	}

	authorID := in.UserID
	content := &models.ExpertContent{
		AuthorID:     &authorID,
		Title:        title,
		Content:      in.Content,
		ContentType:  contentType,
		VideoURL:     strings.TrimSpace(in.VideoURL),
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
	}
	if err := s.expertRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

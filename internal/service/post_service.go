package service

import (
	"context"
	"log/slog"
	"strings"

	"vibella/internal/middleware"
	"vibella/internal/models"
	"vibella/internal/repository"
	"vibella/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	scores   *ScoreService
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID    uint
	Content   string
	ImageURL  string
	MoodEmoji string
	Topics    []string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
	Topic         string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	scores *ScoreService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		scores:   scores,
		isAdmin:  isAdmin,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxContentLen = 5000
	const maxTopics = 5

	content := strings.TrimSpace(in.Content)
	if content == "" && strings.TrimSpace(in.ImageURL) == "" {
		return nil, models.NewValidationError("Post needs content or an image")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}
	if len(in.Topics) > maxTopics {
		return nil, models.NewValidationError("Too many topics (max 5)")
	}

	topics := make([]string, 0, len(in.Topics))
	for _, t := range in.Topics {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		if err := validation.ValidateTopic(t); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		topics = append(topics, t)
	}

	post := &models.Post{
		UserID:    in.UserID,
		Content:   content,
		ImageURL:  strings.TrimSpace(in.ImageURL),
		MoodEmoji: in.MoodEmoji,
		Topics:    topics,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.recomputeScore(ctx, in.UserID)

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.List(ctx, limit, in.Offset, in.CurrentUserID, in.Topic)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, in.UserID)
			if err != nil {
				return err
			}
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	s.recomputeScore(ctx, post.UserID)
	return nil
}

// ToggleLike likes the post if the user has not liked it, or removes the
// like if they have. Users cannot like their own posts. Returns the new
// liked state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return false, err
	}
	if post.UserID == userID {
		return false, models.NewValidationError("You cannot like your own post")
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return liked, err
	}

	if err := s.postRepo.RecountLikes(ctx, postID); err != nil {
		return !liked, err
	}

	s.recomputeScore(ctx, userID)
	return !liked, nil
}

// recomputeScore refreshes the user's weekly score after an activity
// mutation. Failures are logged, never surfaced: the post or like that
// triggered the recompute has already been committed.
func (s *PostService) recomputeScore(ctx context.Context, userID uint) {
	if s.scores == nil {
		return
	}
	if _, err := s.scores.RecomputeScore(ctx, userID); err != nil {
		middleware.Logger.WarnContext(ctx, "weekly score recompute failed",
			slog.Any("user_id", userID),
			slog.String("error", err.Error()))
	}
}

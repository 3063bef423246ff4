package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vibella/internal/middleware"
	"vibella/internal/models"
	"vibella/internal/observability"
	"vibella/internal/repository"
)

type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

type CreateChallengeInput struct {
	UserID      uint
	Title       string
	Description string
	GoalType    string
	GoalValue   float64
	StartDate   string
	EndDate     string
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ChallengeService {
	return &ChallengeService{challengeRepo: challengeRepo, isAdmin: isAdmin}
}

func (s *ChallengeService) ListChallenges(ctx context.Context, limit, offset int) ([]models.Challenge, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.challengeRepo.List(ctx, limit, offset)
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id uint) (*models.Challenge, error) {
	return s.challengeRepo.GetByID(ctx, id)
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, in CreateChallengeInput) (*models.Challenge, error) {
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewUnauthorizedError("Only admins can create challenges")
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Challenge title is required")
	}
	if len(title) > 200 {
		return nil, models.NewValidationError("Challenge title too long (max 200 characters)")
	}
	if !models.ValidGoalType(in.GoalType) {
		return nil, models.NewValidationError("Invalid goal type")
	}
	if in.GoalValue <= 0 {
		return nil, models.NewValidationError("Goal value must be positive")
	}

	start, err := time.Parse(models.HabitDateLayout, in.StartDate)
	if err != nil {
		return nil, models.NewValidationError("Invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(models.HabitDateLayout, in.EndDate)
	if err != nil {
		return nil, models.NewValidationError("Invalid end date, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, models.NewValidationError("End date must not be before start date")
	}

	challenge := &models.Challenge{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		GoalType:    in.GoalType,
		GoalValue:   in.GoalValue,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// JoinChallenge enrolls the user. Joining twice is a no-op that returns
// the existing participant row; progress is never reset by a re-join.
func (s *ChallengeService) JoinChallenge(ctx context.Context, challengeID, userID uint) (*models.ChallengeParticipant, bool, error) {
	if _, err := s.challengeRepo.GetByID(ctx, challengeID); err != nil {
		return nil, false, err
	}

	existing, err := s.challengeRepo.GetParticipant(ctx, challengeID, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	participant := &models.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
	}
	if err := s.challengeRepo.CreateParticipant(ctx, participant); err != nil {
		// A concurrent join can beat us to the unique index.
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "CONFLICT" {
			if p, gerr := s.challengeRepo.GetParticipant(ctx, challengeID, userID); gerr == nil && p != nil {
				return p, false, nil
			}
		}
		return nil, false, err
	}

	if err := s.challengeRepo.RecountParticipants(ctx, challengeID); err != nil {
		middleware.Logger.WarnContext(ctx, "participant recount failed",
			slog.Any("challenge_id", challengeID),
			slog.String("error", err.Error()))
	}

	return participant, true, nil
}

func (s *ChallengeService) MyChallenges(ctx context.Context, userID uint) ([]models.ChallengeParticipant, error) {
	return s.challengeRepo.ListParticipantsForUser(ctx, userID)
}

// PropagateProgress overwrites joined participants' progress with the
// latest saved metric values for the given date. Users who never joined
// a challenge are skipped; propagation never enrolls anyone.
func (s *ChallengeService) PropagateProgress(ctx context.Context, userID uint, date string, metrics models.HabitMetrics) error {
	ctx, span := observability.GetTraceLayer().TraceServiceCall(ctx, "ChallengeService", "PropagateProgress")
	defer span.End()
	defer observability.ObservePropagation(time.Now())

	for _, mv := range metrics.MetricValues() {
		challenges, err := s.challengeRepo.ListActiveByGoalType(ctx, mv.GoalType, date)
		if err != nil {
			observability.RecordErrorInContext(ctx, err)
			return err
		}

		for _, ch := range challenges {
			p, err := s.challengeRepo.GetParticipant(ctx, ch.ID, userID)
			if err != nil {
				observability.RecordErrorInContext(ctx, err)
				return err
			}
			if p == nil {
				continue
			}

			if err := s.challengeRepo.UpdateParticipantProgress(ctx, ch.ID, userID, mv.Value); err != nil {
				observability.RecordErrorInContext(ctx, err)
				return err
			}
			observability.ChallengePropagations.WithLabelValues(mv.GoalType).Inc()
		}
	}

	return nil
}

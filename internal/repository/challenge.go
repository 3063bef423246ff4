package repository

import (
	"context"
	"errors"

	"vibella/internal/models"

	"gorm.io/gorm"
)

// ChallengeRepository defines persistence operations for challenges and
// their participants.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id uint) (*models.Challenge, error)
	List(ctx context.Context, limit, offset int) ([]models.Challenge, error)
	ListActiveByGoalType(ctx context.Context, goalType, date string) ([]models.Challenge, error)
	GetParticipant(ctx context.Context, challengeID, userID uint) (*models.ChallengeParticipant, error)
	ListParticipantsForUser(ctx context.Context, userID uint) ([]models.ChallengeParticipant, error)
	CreateParticipant(ctx context.Context, participant *models.ChallengeParticipant) error
	UpdateParticipantProgress(ctx context.Context, challengeID, userID uint, progress float64) error
	RecountParticipants(ctx context.Context, challengeID uint) error
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository returns a new ChallengeRepository implementation.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	if err := r.db.WithContext(ctx).Create(challenge).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *challengeRepository) GetByID(ctx context.Context, id uint) (*models.Challenge, error) {
	var challenge models.Challenge
	err := readDB(r.db).WithContext(ctx).
		Preload("Participants").
		First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Challenge", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &challenge, nil
}

func (r *challengeRepository) List(ctx context.Context, limit, offset int) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := readDB(r.db).WithContext(ctx).
		Preload("Participants").
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&challenges).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return challenges, nil
}

// ListActiveByGoalType returns challenges of the given goal type whose
// date window contains the given date.
func (r *challengeRepository) ListActiveByGoalType(ctx context.Context, goalType, date string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := readDB(r.db).WithContext(ctx).
		Where("goal_type = ? AND start_date <= ? AND end_date >= ?", goalType, date, date).
		Find(&challenges).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return challenges, nil
}

func (r *challengeRepository) GetParticipant(ctx context.Context, challengeID, userID uint) (*models.ChallengeParticipant, error) {
	var participant models.ChallengeParticipant
	err := readDB(r.db).WithContext(ctx).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &participant, nil
}

func (r *challengeRepository) ListParticipantsForUser(ctx context.Context, userID uint) ([]models.ChallengeParticipant, error) {
	var participants []models.ChallengeParticipant
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&participants).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return participants, nil
}

func (r *challengeRepository) CreateParticipant(ctx context.Context, participant *models.ChallengeParticipant) error {
	if err := r.db.WithContext(ctx).Create(participant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Already joined this challenge")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateParticipantProgress overwrites the participant's progress with the
// latest metric value. Replace, not accumulate.
func (r *challengeRepository) UpdateParticipantProgress(ctx context.Context, challengeID, userID uint, progress float64) error {
	err := r.db.WithContext(ctx).
		Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Update("progress", progress).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RecountParticipants recomputes the denormalized participant counter from
// the participant rows and writes it back.
func (r *challengeRepository) RecountParticipants(ctx context.Context, challengeID uint) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE challenges SET participants_count =
		 (SELECT COUNT(*) FROM challenge_participants WHERE challenge_participants.challenge_id = challenges.id)
		 WHERE id = ?`,
		challengeID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

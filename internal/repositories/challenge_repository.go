package repositories

import (
	"context"
	"errors"

	"github.com/mroshb/dice_game/internal/models"
	apperrors "github.com/mroshb/dice_game/pkg/errors"
	"gorm.io/gorm"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// CreateChallenge inserts a pending challenge
func (r *ChallengeRepository) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	result := r.db.WithContext(ctx).Create(challenge)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeAlreadyExists, "challenge id already taken")
	}
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to create challenge")
	}
	return nil
}

// GetChallenge retrieves a challenge by its public id
func (r *ChallengeRepository) GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	result := r.db.WithContext(ctx).Where("challenge_id = ?", challengeID).First(&challenge)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, models.ChallengeNotFoundMessage)
	}
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to get challenge")
	}

	return &challenge, nil
}

// UpdateChallenge persists a status change
func (r *ChallengeRepository) UpdateChallenge(ctx context.Context, challenge *models.Challenge) error {
	if err := r.db.WithContext(ctx).Save(challenge).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to update challenge")
	}
	return nil
}

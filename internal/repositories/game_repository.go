package repositories

import (
	"context"

	"github.com/mroshb/dice_game/internal/models"
	apperrors "github.com/mroshb/dice_game/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// AppendRecord inserts one roll into the history
func (r *GameRepository) AppendRecord(ctx context.Context, record *models.GameRecord) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to append game record")
	}
	return nil
}

// GetRecordsByAccount retrieves an account's latest rolls, newest first
func (r *GameRepository) GetRecordsByAccount(ctx context.Context, accountID uint, limit int) ([]models.GameRecord, error) {
	var records []models.GameRecord
	result := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records)

	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to get game history")
	}

	return records, nil
}

// CountRecordsByAccount returns the number of rolls recorded for an account
func (r *GameRepository) CountRecordsByAccount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.GameRecord{}).Where("account_id = ?", accountID).Count(&count)
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to count game records")
	}
	return count, nil
}

// ListRecords returns the latest rolls across all accounts
func (r *GameRepository) ListRecords(ctx context.Context, limit int) ([]models.GameRecord, error) {
	var records []models.GameRecord
	result := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to list game records")
	}
	return records, nil
}

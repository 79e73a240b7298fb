package repositories

import (
	"context"
	"errors"

	"github.com/mroshb/dice_game/internal/models"
	apperrors "github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settlement is what a roll produces once the locked account has been mutated.
type Settlement struct {
	Record *models.GameRecord
	// ReferralReward is credited to the referrer when positive.
	ReferralReward decimal.Decimal
}

// SettleFunc mutates the locked account in place and describes the roll.
// Returning an error rolls the whole transaction back.
type SettleFunc func(account *models.Account) (*Settlement, error)

// LedgerRepository owns every balance-changing write.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// SettleRoll locks the account row, lets settle decide the outcome, then
// persists the account and appends the history row in the same transaction.
func (r *LedgerRepository) SettleRoll(ctx context.Context, telegramID string, settle SettleFunc) (*models.Account, error) {
	var settled models.Account

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, telegramID)
		if err != nil {
			return err
		}

		settlement, err := settle(account)
		if err != nil {
			return err
		}
		if settlement == nil || settlement.Record == nil {
			return apperrors.New(apperrors.ErrCodeInternalError, "roll produced no game record")
		}

		if err := NewAccountRepository(tx).UpdateAccount(ctx, account); err != nil {
			return err
		}

		settlement.Record.AccountID = account.ID
		if err := NewGameRepository(tx).AppendRecord(ctx, settlement.Record); err != nil {
			return err
		}

		if settlement.ReferralReward.IsPositive() && account.ReferredBy != "" {
			if err := creditReferrer(tx, account, settlement.ReferralReward); err != nil {
				return err
			}
		}

		settled = *account
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &settled, nil
}

// lockAccount reads the account row FOR UPDATE.
func lockAccount(tx *gorm.DB, telegramID string) (*models.Account, error) {
	var account models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("telegram_id = ?", telegramID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "account not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to lock account")
	}
	return &account, nil
}

// creditReferrer pays the referral reward to the account whose code the
// roller registered with. An unknown code is not an error.
func creditReferrer(tx *gorm.DB, account *models.Account, reward decimal.Decimal) error {
	result := tx.Model(&models.Account{}).
		Where("referral_code = ? AND id <> ?", account.ReferredBy, account.ID).
		UpdateColumns(map[string]interface{}{
			"balance":           gorm.Expr("balance + ?", reward),
			"referral_earnings": gorm.Expr("referral_earnings + ?", reward),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to credit referrer")
	}
	return nil
}

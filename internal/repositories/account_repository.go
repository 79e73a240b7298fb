package repositories

import (
	"context"
	"errors"

	"github.com/mroshb/dice_game/internal/models"
	apperrors "github.com/mroshb/dice_game/pkg/errors"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts a new account. A taken telegram id or referral code
// yields ALREADY_EXISTS; the caller tells the two apart.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeAlreadyExists, "telegram id or referral code already taken")
	}
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to create account")
	}
	return nil
}

// GetAccountByTelegramID retrieves an account by its external identity
func (r *AccountRepository) GetAccountByTelegramID(ctx context.Context, telegramID string) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&account)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "account not found")
	}
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to get account")
	}

	return &account, nil
}

// GetAccountByReferralCode retrieves the account owning a referral code
func (r *AccountRepository) GetAccountByReferralCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&account)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "referral code not found")
	}
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to get account")
	}

	return &account, nil
}

// EnsureAccount returns the account with account.TelegramID, creating it
// from account when it does not exist yet.
func (r *AccountRepository) EnsureAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	var stored models.Account
	result := r.db.WithContext(ctx).
		Where("telegram_id = ?", account.TelegramID).
		Attrs(*account).
		FirstOrCreate(&stored)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to ensure account")
	}
	return &stored, nil
}

// UpdateAccount persists balance and counter changes
func (r *AccountRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		return apperrors.New(apperrors.ErrCodeValidation, "account has no id")
	}
	result := r.db.WithContext(ctx).Save(account)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to update account")
	}
	return nil
}

// CountReferrals returns how many accounts registered with the given code
func (r *AccountRepository) CountReferrals(ctx context.Context, code string) (int64, error) {
	if code == "" {
		return 0, nil
	}

	var count int64
	result := r.db.WithContext(ctx).Model(&models.Account{}).Where("referred_by = ?", code).Count(&count)
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to count referrals")
	}
	return count, nil
}

// ListAccounts returns accounts ordered by balance, richest first
func (r *AccountRepository) ListAccounts(ctx context.Context, limit int) ([]models.Account, error) {
	var accounts []models.Account
	result := r.db.WithContext(ctx).Order("balance DESC").Order("id ASC").Limit(limit).Find(&accounts)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to list accounts")
	}
	return accounts, nil
}

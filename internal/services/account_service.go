package services

import (
	"context"

	"github.com/mroshb/dice_game/internal/metrics"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/mroshb/dice_game/pkg/utils"
	"github.com/shopspring/decimal"
)

// ReferralCodeLength is the length of generated referral codes.
const ReferralCodeLength = 8

// codeAttempts bounds how often Register draws a new referral code after a
// collision with an existing one.
const codeAttempts = 3

// ReferralSummary describes what an account earned from the players it invited.
type ReferralSummary struct {
	Code     string
	Invited  int64
	Earnings decimal.Decimal
}

type AccountService struct {
	accounts       AccountStore
	defaultBalance decimal.Decimal
	newCode        func() string
}

func NewAccountService(accounts AccountStore, defaultBalance decimal.Decimal) *AccountService {
	return &AccountService{
		accounts:       accounts,
		defaultBalance: defaultBalance,
		newCode:        func() string { return utils.GenerateCode(ReferralCodeLength) },
	}
}

// Register creates an account with the starting balance. referralCode is
// stored verbatim as the referrer link and is not checked against existing codes.
func (s *AccountService) Register(ctx context.Context, telegramID, referralCode string) (*models.Account, error) {
	id, err := requireIdentifier("telegram_id", telegramID)
	if err != nil {
		return nil, err
	}
	code, ok := security.NormalizeReferralCode(referralCode)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "referral code is invalid")
	}

	if err := s.ensureUnregistered(ctx, id); err != nil {
		metrics.RecordRegistration(errors.CodeOf(err), code != "")
		return nil, err
	}

	account := &models.Account{
		TelegramID:       id,
		Balance:          s.defaultBalance,
		ReferredBy:       code,
		ReferralEarnings: decimal.Zero,
	}
	for attempt := 1; ; attempt++ {
		account.ReferralCode = s.newCode()
		if account.ReferralCode == "" {
			return nil, errors.New(errors.ErrCodeInternalError, "failed to generate referral code")
		}

		err = s.accounts.CreateAccount(ctx, account)
		if err == nil {
			break
		}
		if errors.HasCode(err, errors.ErrCodeAlreadyExists) {
			// The unique violation is either a concurrent registration of
			// the same telegram id or a clash on the generated code.
			if regErr := s.ensureUnregistered(ctx, id); regErr != nil {
				err = regErr
			} else if attempt < codeAttempts {
				logger.Warn("Referral code collision, drawing a new one", "telegram_id", id, "attempt", attempt)
				continue
			} else {
				err = errors.Wrap(err, errors.ErrCodeInternalError, "failed to allocate a unique referral code")
			}
		}

		errCode := errors.CodeOf(err)
		metrics.RecordRegistration(errCode, account.ReferredBy != "")
		if errCode == errors.ErrCodeInternalError {
			logger.Error("Registration failed", "telegram_id", id, "error", err)
		}
		return nil, err
	}

	metrics.RecordRegistration("success", account.ReferredBy != "")
	logger.Info("Account registered", "telegram_id", id, "referred_by", account.ReferredBy)
	return account, nil
}

// ensureUnregistered returns ALREADY_EXISTS when telegramID has an account.
func (s *AccountService) ensureUnregistered(ctx context.Context, telegramID string) error {
	_, err := s.accounts.GetAccountByTelegramID(ctx, telegramID)
	if err == nil {
		return errors.New(errors.ErrCodeAlreadyExists, "account already registered")
	}
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		return nil
	}
	return err
}

func (s *AccountService) GetAccount(ctx context.Context, telegramID string) (*models.Account, error) {
	id, err := requireIdentifier("telegram_id", telegramID)
	if err != nil {
		return nil, err
	}
	return s.accounts.GetAccountByTelegramID(ctx, id)
}

// Referrals reports the account's own code and what it has brought in.
func (s *AccountService) Referrals(ctx context.Context, telegramID string) (*ReferralSummary, error) {
	account, err := s.GetAccount(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	invited, err := s.accounts.CountReferrals(ctx, account.ReferralCode)
	if err != nil {
		return nil, err
	}

	return &ReferralSummary{
		Code:     account.ReferralCode,
		Invited:  invited,
		Earnings: account.ReferralEarnings,
	}, nil
}

package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mroshb/dice_game/internal/models"
	apperrors "github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OpenFunc debits the locked creator in place and describes the new challenge.
type OpenFunc func(creator *models.Account) (*models.Challenge, error)

// DuelSettlement is what accepting a challenge produces once both locked
// accounts and the challenge have been mutated.
type DuelSettlement struct {
	// Winner is nil on a tie.
	Winner *models.Account
	// InviterReward goes to the account that invited the winner. With no
	// such account it falls to the house.
	InviterReward   decimal.Decimal
	HouseFee        decimal.Decimal
	HouseTelegramID string
}

// DuelFunc settles a pending challenge between two locked accounts.
// Returning an error rolls the whole transaction back.
type DuelFunc func(challenge *models.Challenge, creator, opponent *models.Account) (*DuelSettlement, error)

// ChallengeResult is a challenge together with the accounts it touched.
type ChallengeResult struct {
	Challenge *models.Challenge
	Creator   *models.Account
	// Opponent is set once the challenge has been accepted.
	Opponent *models.Account
}

// OpenChallenge locks the creator, lets open debit the stake and roll, then
// persists the account and inserts the pending challenge together.
func (r *LedgerRepository) OpenChallenge(ctx context.Context, telegramID string, open OpenFunc) (*ChallengeResult, error) {
	var res ChallengeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		creator, err := lockAccount(tx, telegramID)
		if err != nil {
			return err
		}

		challenge, err := open(creator)
		if err != nil {
			return err
		}
		if challenge == nil {
			return apperrors.New(apperrors.ErrCodeInternalError, "open produced no challenge")
		}

		if err := NewAccountRepository(tx).UpdateAccount(ctx, creator); err != nil {
			return err
		}

		challenge.CreatorID = creator.ID
		challenge.CreatorTelegramID = creator.TelegramID
		if err := NewChallengeRepository(tx).CreateChallenge(ctx, challenge); err != nil {
			return err
		}

		res = ChallengeResult{Challenge: challenge, Creator: creator}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// AcceptChallenge locks the pending challenge and both players, lets settle
// decide the duel, then pays the winner, the inviter and the house in one
// transaction.
func (r *LedgerRepository) AcceptChallenge(ctx context.Context, challengeID, telegramID string, settle DuelFunc) (*ChallengeResult, error) {
	var res ChallengeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		challenge, err := lockPendingChallenge(tx, challengeID)
		if err != nil {
			return err
		}
		if challenge.CreatorTelegramID == telegramID {
			return apperrors.New(apperrors.ErrCodeValidation, "you cannot accept your own challenge")
		}

		creator, opponent, err := lockPlayers(tx, challenge.CreatorID, telegramID)
		if err != nil {
			return err
		}

		challenge.OpponentID = &opponent.ID
		challenge.OpponentTelegramID = opponent.TelegramID

		settlement, err := settle(challenge, creator, opponent)
		if err != nil {
			return err
		}
		if settlement == nil {
			return apperrors.New(apperrors.ErrCodeInternalError, "duel produced no settlement")
		}

		houseFee := settlement.HouseFee
		if settlement.Winner != nil && settlement.InviterReward.IsPositive() {
			paid, err := payInviter(ctx, tx, settlement, creator, opponent)
			if err != nil {
				return err
			}
			if !paid {
				houseFee = houseFee.Add(settlement.InviterReward)
				challenge.HouseFee = houseFee
				challenge.InviterFee = decimal.Zero
			}
		}

		accounts := NewAccountRepository(tx)
		if err := accounts.UpdateAccount(ctx, creator); err != nil {
			return err
		}
		if err := accounts.UpdateAccount(ctx, opponent); err != nil {
			return err
		}

		if houseFee.IsPositive() {
			if err := creditHouse(tx, settlement.HouseTelegramID, houseFee); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		challenge.SettledAt = &now
		if err := NewChallengeRepository(tx).UpdateChallenge(ctx, challenge); err != nil {
			return err
		}

		res = ChallengeResult{Challenge: challenge, Creator: creator, Opponent: opponent}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// CancelChallenge refunds the stake of a pending challenge to its creator.
// Only the creator may cancel.
func (r *LedgerRepository) CancelChallenge(ctx context.Context, challengeID, telegramID string) (*ChallengeResult, error) {
	var res ChallengeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		challenge, err := lockPendingChallenge(tx, challengeID)
		if err != nil {
			return err
		}
		if challenge.CreatorTelegramID != telegramID {
			return apperrors.New(apperrors.ErrCodeValidationFailed, "only the creator can cancel a challenge")
		}

		creator, err := lockAccount(tx, telegramID)
		if err != nil {
			return err
		}
		creator.Balance = creator.Balance.Add(challenge.BetAmount)
		if err := NewAccountRepository(tx).UpdateAccount(ctx, creator); err != nil {
			return err
		}

		challenge.Status = models.ChallengeStatusCancelled
		if err := NewChallengeRepository(tx).UpdateChallenge(ctx, challenge); err != nil {
			return err
		}

		res = ChallengeResult{Challenge: challenge, Creator: creator}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func lockPendingChallenge(tx *gorm.DB, challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("challenge_id = ?", challengeID).
		First(&challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, models.ChallengeNotFoundMessage)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to lock challenge")
	}
	if challenge.Status != models.ChallengeStatusPending {
		return nil, apperrors.New(apperrors.ErrCodeValidationFailed, "challenge is no longer open")
	}
	return &challenge, nil
}

// lockPlayers locks the creator and the opponent in id order so two duels
// between the same pair cannot deadlock.
func lockPlayers(tx *gorm.DB, creatorID uint, opponentTelegramID string) (*models.Account, *models.Account, error) {
	var players []models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? OR telegram_id = ?", creatorID, opponentTelegramID).
		Order("id").
		Find(&players).Error; err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to lock players")
	}

	var creator, opponent *models.Account
	for i := range players {
		switch {
		case players[i].ID == creatorID:
			creator = &players[i]
		case players[i].TelegramID == opponentTelegramID:
			opponent = &players[i]
		}
	}
	if opponent == nil {
		return nil, nil, apperrors.New(apperrors.ErrCodeNotFound, "account not found")
	}
	if creator == nil {
		return nil, nil, apperrors.New(apperrors.ErrCodeInternalError, "challenge creator is missing")
	}
	return creator, opponent, nil
}

// payInviter credits the inviter of the winner and reports whether anyone
// was paid. A player who invited the winner is credited in memory so the
// later save does not overwrite the reward.
func payInviter(ctx context.Context, tx *gorm.DB, settlement *DuelSettlement, creator, opponent *models.Account) (bool, error) {
	winner := settlement.Winner
	if winner.ReferredBy == "" {
		return false, nil
	}

	inviter, err := NewAccountRepository(tx).GetAccountByReferralCode(ctx, winner.ReferredBy)
	if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	reward := settlement.InviterReward
	switch inviter.ID {
	case winner.ID:
		return false, nil
	case creator.ID:
		creator.Balance = creator.Balance.Add(reward)
		creator.ReferralEarnings = creator.ReferralEarnings.Add(reward)
		return true, nil
	case opponent.ID:
		opponent.Balance = opponent.Balance.Add(reward)
		opponent.ReferralEarnings = opponent.ReferralEarnings.Add(reward)
		return true, nil
	}

	result := tx.Model(&models.Account{}).
		Where("id = ?", inviter.ID).
		UpdateColumns(map[string]interface{}{
			"balance":           gorm.Expr("balance + ?", reward),
			"referral_earnings": gorm.Expr("referral_earnings + ?", reward),
		})
	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to credit inviter")
	}
	return result.RowsAffected > 0, nil
}

func creditHouse(tx *gorm.DB, houseTelegramID string, fee decimal.Decimal) error {
	result := tx.Model(&models.Account{}).
		Where("telegram_id = ?", houseTelegramID).
		UpdateColumn("balance", gorm.Expr("balance + ?", fee))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to credit house account")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrCodeInternalError, "house account missing")
	}
	return nil
}

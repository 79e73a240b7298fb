package services

import (
	"github.com/mroshb/dice_game/internal/config"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
)

// Rules are the economics of a single roll.
type Rules struct {
	EntryFee           decimal.Decimal
	WinCredit          decimal.Decimal
	WinThreshold       int
	ReferralRewardRate decimal.Decimal
}

func DefaultRules() Rules {
	return Rules{
		EntryFee:           decimal.NewFromInt(100),
		WinCredit:          decimal.NewFromInt(90),
		WinThreshold:       9,
		ReferralRewardRate: decimal.Zero,
	}
}

func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		EntryFee:           cfg.EntryFee,
		WinCredit:          cfg.WinCredit,
		WinThreshold:       cfg.WinThreshold,
		ReferralRewardRate: cfg.ReferralRewardRate,
	}
}

// Outcome labels a total: strictly above the threshold wins.
func (r Rules) Outcome(total int) string {
	if total > r.WinThreshold {
		return models.OutcomeWin
	}
	return models.OutcomeLoss
}

// Apply settles dice against acc in place. An account below the entry fee is
// rejected and left untouched.
func (r Rules) Apply(acc *models.Account, dice Dice) (*repositories.Settlement, error) {
	if acc.Balance.LessThan(r.EntryFee) {
		return nil, errors.NewInsufficientFunds(acc.Balance, r.EntryFee)
	}
	for _, d := range dice {
		if d < 1 || d > models.DieFaces {
			return nil, errors.New(errors.ErrCodeInternalError, "die out of range")
		}
	}

	total := dice.Total()
	outcome := r.Outcome(total)
	reward := decimal.Zero

	acc.Balance = acc.Balance.Sub(r.EntryFee)
	if outcome == models.OutcomeWin {
		acc.Balance = acc.Balance.Add(r.WinCredit)
		acc.WinCount++
		if r.ReferralRewardRate.IsPositive() {
			reward = r.WinCredit.Mul(r.ReferralRewardRate).Round(2)
		}
	} else {
		acc.LoseCount++
	}

	return &repositories.Settlement{
		Record: &models.GameRecord{
			Die1:         dice[0],
			Die2:         dice[1],
			Die3:         dice[2],
			Total:        total,
			Outcome:      outcome,
			BalanceAfter: acc.Balance,
		},
		ReferralReward: reward,
	}, nil
}

package services

import (
	"fmt"

	"github.com/mroshb/dice_game/internal/config"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
)

// ChallengeRules are the economics of a two-player duel. Both fees are taken
// as a share of one stake, so the winner receives 2*bet minus the fees.
type ChallengeRules struct {
	MinBet         decimal.Decimal
	MaxBet         decimal.Decimal
	BetStep        decimal.Decimal
	HouseFeeRate   decimal.Decimal
	InviterFeeRate decimal.Decimal
}

func DefaultChallengeRules() ChallengeRules {
	return ChallengeRules{
		MinBet:         decimal.NewFromInt(100),
		MaxBet:         decimal.NewFromInt(1000),
		BetStep:        decimal.NewFromInt(100),
		HouseFeeRate:   decimal.RequireFromString("0.03"),
		InviterFeeRate: decimal.RequireFromString("0.07"),
	}
}

func ChallengeRulesFromConfig(cfg *config.Config) ChallengeRules {
	return ChallengeRules{
		MinBet:         cfg.ChallengeMinBet,
		MaxBet:         cfg.ChallengeMaxBet,
		BetStep:        cfg.ChallengeBetStep,
		HouseFeeRate:   cfg.ChallengeHouseFeeRate,
		InviterFeeRate: cfg.ChallengeInviterFeeRate,
	}
}

// ValidateBet accepts MinBet..MaxBet in whole steps.
func (r ChallengeRules) ValidateBet(bet decimal.Decimal) error {
	if bet.LessThan(r.MinBet) || bet.GreaterThan(r.MaxBet) || !bet.Mod(r.BetStep).IsZero() {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("bet must be between %s and %s in steps of %s",
			r.MinBet.String(), r.MaxBet.String(), r.BetStep.String()))
	}
	return nil
}

// Split divides the pool of a decided duel between winner, house and inviter.
func (r ChallengeRules) Split(bet decimal.Decimal) (payout, house, inviter decimal.Decimal) {
	house = bet.Mul(r.HouseFeeRate).Round(2)
	inviter = bet.Mul(r.InviterFeeRate).Round(2)
	payout = bet.Mul(decimal.NewFromInt(2)).Sub(house).Sub(inviter)
	return payout, house, inviter
}

// Settle decides a challenge whose opponent has already staked and rolled.
// A tie refunds both stakes and charges no fee.
func (r ChallengeRules) Settle(ch *models.Challenge, creator, opponent *models.Account) *repositories.DuelSettlement {
	ch.Status = models.ChallengeStatusCompleted

	if ch.CreatorScore == ch.OpponentScore {
		creator.Balance = creator.Balance.Add(ch.BetAmount)
		opponent.Balance = opponent.Balance.Add(ch.BetAmount)
		ch.WinnerTelegramID = ""
		ch.Payout = decimal.Zero
		ch.HouseFee = decimal.Zero
		ch.InviterFee = decimal.Zero
		return &repositories.DuelSettlement{}
	}

	winner := opponent
	if ch.CreatorScore > ch.OpponentScore {
		winner = creator
	}

	payout, house, inviter := r.Split(ch.BetAmount)
	winner.Balance = winner.Balance.Add(payout)
	ch.WinnerTelegramID = winner.TelegramID
	ch.Payout = payout
	ch.HouseFee = house
	ch.InviterFee = inviter

	return &repositories.DuelSettlement{
		Winner:        winner,
		InviterReward: inviter,
		HouseFee:      house,
	}
}

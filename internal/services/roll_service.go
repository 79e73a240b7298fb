package services

import (
	"context"
	"time"

	"github.com/mroshb/dice_game/internal/metrics"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/shopspring/decimal"
)

// History page bounds
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// RollOutcome is what a settled roll reports back to the player.
type RollOutcome struct {
	Result    string
	Dice      Dice
	Total     int
	Balance   decimal.Decimal
	WinCount  int
	LoseCount int
}

type RollService struct {
	ledger   Ledger
	accounts AccountStore
	games    GameHistory
	roller   DiceRoller
	rules    Rules
}

func NewRollService(ledger Ledger, accounts AccountStore, games GameHistory, roller DiceRoller, rules Rules) *RollService {
	if roller == nil {
		roller = CryptoRoller{}
	}
	return &RollService{
		ledger:   ledger,
		accounts: accounts,
		games:    games,
		roller:   roller,
		rules:    rules,
	}
}

// Roll charges the entry fee, draws three dice and settles the result under
// the account's row lock.
func (s *RollService) Roll(ctx context.Context, telegramID string) (*RollOutcome, error) {
	started := time.Now()
	id, err := requireIdentifier("telegram_id", telegramID)
	if err != nil {
		return nil, err
	}

	var outcome RollOutcome
	account, err := s.ledger.SettleRoll(ctx, id, func(acc *models.Account) (*repositories.Settlement, error) {
		dice, err := s.roller.Roll()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to roll dice")
		}

		settlement, err := s.rules.Apply(acc, dice)
		if err != nil {
			return nil, err
		}

		outcome.Dice = dice
		outcome.Total = settlement.Record.Total
		outcome.Result = settlement.Record.Outcome
		return settlement, nil
	})
	if err != nil {
		code := errors.CodeOf(err)
		metrics.RecordRollRejected(code, started)
		if code == errors.ErrCodeInternalError {
			logger.Error("Roll failed", "telegram_id", id, "error", err)
		}
		return nil, err
	}

	outcome.Balance = account.Balance
	outcome.WinCount = account.WinCount
	outcome.LoseCount = account.LoseCount

	metrics.RecordRoll(outcome.Result, outcome.Total, started)
	logger.Debug("Roll settled", "telegram_id", id, "total", outcome.Total, "result", outcome.Result, "balance", outcome.Balance.String())
	return &outcome, nil
}

// History returns the account's latest rolls, newest first.
func (s *RollService) History(ctx context.Context, telegramID string, limit int) ([]models.GameRecord, error) {
	id, err := requireIdentifier("telegram_id", telegramID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	account, err := s.accounts.GetAccountByTelegramID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.games.GetRecordsByAccount(ctx, account.ID, limit)
}

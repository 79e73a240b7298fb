package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/mroshb/dice_game/internal/metrics"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/shopspring/decimal"
)

// HouseReferralCode is the referral code of the house account.
const HouseReferralCode = "HOUSE"

type ChallengeService struct {
	ledger     ChallengeLedger
	challenges ChallengeStore
	accounts   HouseStore
	roller     DiceRoller
	rules      ChallengeRules
	houseID    string
}

func NewChallengeService(ledger ChallengeLedger, challenges ChallengeStore, accounts HouseStore, roller DiceRoller, rules ChallengeRules, houseID string) *ChallengeService {
	if roller == nil {
		roller = CryptoRoller{}
	}
	return &ChallengeService{
		ledger:     ledger,
		challenges: challenges,
		accounts:   accounts,
		roller:     roller,
		rules:      rules,
		houseID:    houseID,
	}
}

// EnsureHouse creates the account that collects challenge fees if it is missing.
func (s *ChallengeService) EnsureHouse(ctx context.Context) (*models.Account, error) {
	house, err := s.accounts.EnsureAccount(ctx, &models.Account{
		TelegramID:       s.houseID,
		Balance:          decimal.Zero,
		ReferralCode:     HouseReferralCode,
		ReferralEarnings: decimal.Zero,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("House account ready", "telegram_id", house.TelegramID, "balance", house.Balance.String())
	return house, nil
}

// Open stakes bet from the creator, rolls their dice and leaves the
// challenge pending for an opponent.
func (s *ChallengeService) Open(ctx context.Context, telegramID string, bet decimal.Decimal) (*repositories.ChallengeResult, error) {
	id, err := s.player(telegramID)
	if err != nil {
		return nil, err
	}
	if err := s.rules.ValidateBet(bet); err != nil {
		return nil, err
	}

	res, err := s.ledger.OpenChallenge(ctx, id, func(creator *models.Account) (*models.Challenge, error) {
		if creator.Balance.LessThan(bet) {
			return nil, errors.NewInsufficientFunds(creator.Balance, bet)
		}
		dice, err := s.roller.Roll()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to roll dice")
		}

		creator.Balance = creator.Balance.Sub(bet)
		return &models.Challenge{
			ChallengeID:  models.ChallengeIDPrefix + uuid.NewString(),
			BetAmount:    bet,
			CreatorDie1:  dice[0],
			CreatorDie2:  dice[1],
			CreatorDie3:  dice[2],
			CreatorScore: dice.Total(),
			Status:       models.ChallengeStatusPending,
			Payout:       decimal.Zero,
			HouseFee:     decimal.Zero,
			InviterFee:   decimal.Zero,
		}, nil
	})
	if err != nil {
		s.recordFailure("open", id, err)
		return nil, err
	}

	metrics.RecordChallengeEvent("open", "success")
	logger.Info("Challenge opened", "challenge_id", res.Challenge.ChallengeID, "creator", id, "bet", bet.String())
	return res, nil
}

// Accept stakes the same bet from the opponent, rolls their dice and settles
// the duel.
func (s *ChallengeService) Accept(ctx context.Context, challengeID, telegramID string) (*repositories.ChallengeResult, error) {
	chID, err := challengeIdentifier(challengeID)
	if err != nil {
		return nil, err
	}
	id, err := s.player(telegramID)
	if err != nil {
		return nil, err
	}

	res, err := s.ledger.AcceptChallenge(ctx, chID, id, func(ch *models.Challenge, creator, opponent *models.Account) (*repositories.DuelSettlement, error) {
		if opponent.Balance.LessThan(ch.BetAmount) {
			return nil, errors.NewInsufficientFunds(opponent.Balance, ch.BetAmount)
		}
		dice, err := s.roller.Roll()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to roll dice")
		}

		opponent.Balance = opponent.Balance.Sub(ch.BetAmount)
		ch.OpponentDie1, ch.OpponentDie2, ch.OpponentDie3 = dice[0], dice[1], dice[2]
		ch.OpponentScore = dice.Total()

		settlement := s.rules.Settle(ch, creator, opponent)
		settlement.HouseTelegramID = s.houseID
		return settlement, nil
	})
	if err != nil {
		s.recordFailure("accept", id, err)
		return nil, err
	}

	ch := res.Challenge
	result := "win"
	if ch.IsTie() {
		result = "tie"
	}
	metrics.RecordChallengeEvent("accept", result)
	metrics.RecordChallengeFees(ch.HouseFee, ch.InviterFee)
	logger.Info("Challenge settled", "challenge_id", ch.ChallengeID,
		"creator_score", ch.CreatorScore, "opponent_score", ch.OpponentScore,
		"winner", ch.WinnerTelegramID, "house_fee", ch.HouseFee.String(), "inviter_fee", ch.InviterFee.String())
	return res, nil
}

// Cancel refunds a pending challenge to its creator.
func (s *ChallengeService) Cancel(ctx context.Context, challengeID, telegramID string) (*repositories.ChallengeResult, error) {
	chID, err := challengeIdentifier(challengeID)
	if err != nil {
		return nil, err
	}
	id, err := requireIdentifier("telegram_id", telegramID)
	if err != nil {
		return nil, err
	}

	res, err := s.ledger.CancelChallenge(ctx, chID, id)
	if err != nil {
		s.recordFailure("cancel", id, err)
		return nil, err
	}

	metrics.RecordChallengeEvent("cancel", "success")
	logger.Info("Challenge cancelled", "challenge_id", chID, "creator", id)
	return res, nil
}

func (s *ChallengeService) Get(ctx context.Context, challengeID string) (*models.Challenge, error) {
	chID, err := challengeIdentifier(challengeID)
	if err != nil {
		return nil, err
	}
	return s.challenges.GetChallenge(ctx, chID)
}

// player validates a telegram id that is about to stake coins.
func (s *ChallengeService) player(telegramID string) (string, error) {
	id, err := requireIdentifier("telegram_id", telegramID)
	if err != nil {
		return "", err
	}
	if id == s.houseID {
		return "", errors.New(errors.ErrCodeValidation, "the house account cannot play")
	}
	return id, nil
}

func (s *ChallengeService) recordFailure(action, telegramID string, err error) {
	code := errors.CodeOf(err)
	metrics.RecordChallengeEvent(action, code)
	if code == errors.ErrCodeInternalError {
		logger.Error("Challenge "+action+" failed", "telegram_id", telegramID, "error", err)
	}
}

func challengeIdentifier(raw string) (string, error) {
	id, err := requireIdentifier("challenge_id", raw)
	if err != nil {
		return "", err
	}
	if !models.IsChallengeID(id) {
		return "", errors.New(errors.ErrCodeValidation, "challenge_id is invalid")
	}
	return id, nil
}

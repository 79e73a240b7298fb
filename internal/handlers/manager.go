package handlers

import (
	"context"

	"github.com/mroshb/dice_game/internal/middleware"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/internal/services"
	"github.com/shopspring/decimal"
)

// AccountManager is implemented by services.AccountService.
type AccountManager interface {
	Register(ctx context.Context, telegramID, referralCode string) (*models.Account, error)
	GetAccount(ctx context.Context, telegramID string) (*models.Account, error)
	Referrals(ctx context.Context, telegramID string) (*services.ReferralSummary, error)
}

// RollManager is implemented by services.RollService.
type RollManager interface {
	Roll(ctx context.Context, telegramID string) (*services.RollOutcome, error)
	History(ctx context.Context, telegramID string, limit int) ([]models.GameRecord, error)
}

// RoomManager is implemented by services.RoomService.
type RoomManager interface {
	Create(ctx context.Context, params services.CreateRoomParams) (*models.Room, error)
	Join(ctx context.Context, roomID string) (*models.Room, error)
	Get(ctx context.Context, roomID string) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
}

// ChallengeManager is implemented by services.ChallengeService.
type ChallengeManager interface {
	Open(ctx context.Context, telegramID string, bet decimal.Decimal) (*repositories.ChallengeResult, error)
	Accept(ctx context.Context, challengeID, telegramID string) (*repositories.ChallengeResult, error)
	Cancel(ctx context.Context, challengeID, telegramID string) (*repositories.ChallengeResult, error)
	Get(ctx context.Context, challengeID string) (*models.Challenge, error)
}

var (
	_ AccountManager = (*services.AccountService)(nil)
	_ RollManager    = (*services.RollService)(nil)
	_ RoomManager    = (*services.RoomService)(nil)

	_ ChallengeManager = (*services.ChallengeService)(nil)
)

// HandlerManager wires the HTTP surface to the services.
type HandlerManager struct {
	Accounts AccountManager
	Rolls    RollManager
	Rooms    RoomManager
	// Challenges is nil when head-to-head play is not served.
	Challenges ChallengeManager
	// Limiter throttles rolls per telegram id and requests per IP. Nil disables both.
	Limiter middleware.Limiter
	// Ping reports database health for /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

func NewHandlerManager(accounts AccountManager, rolls RollManager, rooms RoomManager, challenges ChallengeManager, limiter middleware.Limiter, ping func(ctx context.Context) error) *HandlerManager {
	return &HandlerManager{
		Accounts:   accounts,
		Rolls:      rolls,
		Rooms:      rooms,
		Challenges: challenges,
		Limiter:    limiter,
		Ping:       ping,
	}
}

package services

import (
	"context"

	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/repositories"
)

// AccountStore is implemented by repositories.AccountRepository.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByTelegramID(ctx context.Context, telegramID string) (*models.Account, error)
	CountReferrals(ctx context.Context, code string) (int64, error)
}

// Ledger is implemented by repositories.LedgerRepository.
type Ledger interface {
	SettleRoll(ctx context.Context, telegramID string, settle repositories.SettleFunc) (*models.Account, error)
}

// ChallengeLedger is implemented by repositories.LedgerRepository.
type ChallengeLedger interface {
	OpenChallenge(ctx context.Context, telegramID string, open repositories.OpenFunc) (*repositories.ChallengeResult, error)
	AcceptChallenge(ctx context.Context, challengeID, telegramID string, settle repositories.DuelFunc) (*repositories.ChallengeResult, error)
	CancelChallenge(ctx context.Context, challengeID, telegramID string) (*repositories.ChallengeResult, error)
}

// ChallengeStore is implemented by repositories.ChallengeRepository.
type ChallengeStore interface {
	GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error)
}

// HouseStore is implemented by repositories.AccountRepository.
type HouseStore interface {
	EnsureAccount(ctx context.Context, account *models.Account) (*models.Account, error)
}

// GameHistory is implemented by repositories.GameRepository.
type GameHistory interface {
	GetRecordsByAccount(ctx context.Context, accountID uint, limit int) ([]models.GameRecord, error)
}

// RoomStore is implemented by repositories.RoomRepository.
type RoomStore interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoomByRoomID(ctx context.Context, roomID string) (*models.Room, error)
	JoinRoom(ctx context.Context, roomID string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
}

var (
	_ AccountStore = (*repositories.AccountRepository)(nil)
	_ Ledger       = (*repositories.LedgerRepository)(nil)
	_ GameHistory  = (*repositories.GameRepository)(nil)
	_ RoomStore    = (*repositories.RoomRepository)(nil)

	_ ChallengeLedger = (*repositories.LedgerRepository)(nil)
	_ ChallengeStore  = (*repositories.ChallengeRepository)(nil)
	_ HouseStore      = (*repositories.AccountRepository)(nil)
)

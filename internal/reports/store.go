package reports

import (
	"github.com/mroshb/dice_game/internal/repositories"
	"gorm.io/gorm"
)

// Store reads report data straight from the database.
type Store struct {
	*repositories.AccountRepository
	*repositories.RoomRepository
	*repositories.GameRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		AccountRepository: repositories.NewAccountRepository(db),
		RoomRepository:    repositories.NewRoomRepository(db),
		GameRepository:    repositories.NewGameRepository(db),
	}
}

var _ Source = (*Store)(nil)

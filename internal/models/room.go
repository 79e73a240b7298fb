package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Room struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	RoomID         string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"room_id"`
	Creator        string          `gorm:"type:varchar(64);index" json:"creator"`
	MaxPlayers     int             `gorm:"not null" json:"max_players"`
	TotalBetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_bet_amount"`
	Status         string          `gorm:"type:varchar(20);default:'waiting';index" json:"status"`
	CurrentPlayers int             `gorm:"default:0;not null" json:"current_players"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Room status constants
const (
	RoomStatusWaiting = "waiting"
	RoomStatusActive  = "active"
	RoomStatusClosed  = "closed"
)

// Room capacity bounds
const (
	MinRoomPlayers = 2
	MaxRoomPlayers = 100
)

// BeforeSave hook for validation
func (r *Room) BeforeSave(tx *gorm.DB) error {
	if r.RoomID == "" {
		return gorm.ErrInvalidData
	}

	validStatuses := map[string]bool{
		RoomStatusWaiting: true,
		RoomStatusActive:  true,
		RoomStatusClosed:  true,
	}
	if !validStatuses[r.Status] {
		return gorm.ErrInvalidData
	}

	if r.MaxPlayers < MinRoomPlayers || r.MaxPlayers > MaxRoomPlayers {
		return gorm.ErrInvalidData
	}
	if r.CurrentPlayers < 0 || r.CurrentPlayers > r.MaxPlayers {
		return gorm.ErrInvalidData
	}
	if !r.TotalBetAmount.IsPositive() {
		return gorm.ErrInvalidData
	}

	return nil
}

// IsFull reports whether no seat is left.
func (r *Room) IsFull() bool {
	return r.CurrentPlayers >= r.MaxPlayers
}

func (Room) TableName() string {
	return "rooms"
}

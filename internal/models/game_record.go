package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GameRecord is the append-only history row written once per roll.
type GameRecord struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AccountID    uint            `gorm:"not null;index" json:"account_id"`
	Account      Account         `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	Die1         int             `gorm:"not null" json:"die1"`
	Die2         int             `gorm:"not null" json:"die2"`
	Die3         int             `gorm:"not null" json:"die3"`
	Total        int             `gorm:"not null" json:"total"`
	Outcome      string          `gorm:"type:varchar(10);not null;index" json:"outcome"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"balance_after"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// Roll outcome labels
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
)

// Dice bounds
const (
	DiceCount = 3
	DieFaces  = 6
	MinTotal  = DiceCount
	MaxTotal  = DiceCount * DieFaces
)

// BeforeCreate validates the dice and the sum before the row is appended.
func (g *GameRecord) BeforeCreate(tx *gorm.DB) error {
	for _, d := range []int{g.Die1, g.Die2, g.Die3} {
		if d < 1 || d > DieFaces {
			return gorm.ErrInvalidData
		}
	}
	if g.Total != g.Die1+g.Die2+g.Die3 {
		return gorm.ErrInvalidData
	}
	if g.Outcome != OutcomeWin && g.Outcome != OutcomeLoss {
		return gorm.ErrInvalidData
	}
	return nil
}

func (GameRecord) TableName() string {
	return "game_records"
}

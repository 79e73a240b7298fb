package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Balances go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Account is one player: balance, win/lose tallies and referral linkage.
type Account struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	TelegramID       string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"telegram_id"`
	Balance          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1000" json:"balance"`
	WinCount         int             `gorm:"default:0;not null" json:"win_count"`
	LoseCount        int             `gorm:"default:0;not null" json:"lose_count"`
	ReferralCode     string          `gorm:"type:varchar(16);uniqueIndex" json:"referral_code"`
	ReferredBy       string          `gorm:"type:varchar(64);index" json:"referred_by"`
	ReferralEarnings decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"referral_earnings"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeSave rejects rows that would break the balance and tally invariants.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	if a.TelegramID == "" {
		return gorm.ErrInvalidData
	}
	if a.Balance.IsNegative() || a.ReferralEarnings.IsNegative() {
		return gorm.ErrInvalidData
	}
	if a.WinCount < 0 || a.LoseCount < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

// GamesPlayed is the number of settled rolls.
func (a *Account) GamesPlayed() int {
	return a.WinCount + a.LoseCount
}

func (Account) TableName() string {
	return "accounts"
}

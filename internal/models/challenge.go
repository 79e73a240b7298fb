package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Challenge is a two-player duel: both sides stake the same bet, roll three
// dice each and the higher total takes the pool minus fees.
type Challenge struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ChallengeID        string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"challenge_id"`
	CreatorID          uint            `gorm:"not null;index" json:"creator_id"`
	CreatorTelegramID  string          `gorm:"type:varchar(64);not null" json:"creator_telegram_id"`
	OpponentID         *uint           `gorm:"index" json:"opponent_id,omitempty"`
	OpponentTelegramID string          `gorm:"type:varchar(64)" json:"opponent_telegram_id,omitempty"`
	BetAmount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"bet_amount"`
	CreatorDie1        int             `gorm:"not null" json:"creator_die1"`
	CreatorDie2        int             `gorm:"not null" json:"creator_die2"`
	CreatorDie3        int             `gorm:"not null" json:"creator_die3"`
	CreatorScore       int             `gorm:"not null" json:"creator_score"`
	OpponentDie1       int             `json:"opponent_die1,omitempty"`
	OpponentDie2       int             `json:"opponent_die2,omitempty"`
	OpponentDie3       int             `json:"opponent_die3,omitempty"`
	OpponentScore      int             `json:"opponent_score,omitempty"`
	Status             string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	WinnerTelegramID   string          `gorm:"type:varchar(64)" json:"winner_telegram_id,omitempty"`
	Payout             decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"payout"`
	HouseFee           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"house_fee"`
	InviterFee         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"inviter_fee"`
	CreatedAt          time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	SettledAt          *time.Time      `json:"settled_at,omitempty"`
}

// Challenge status constants
const (
	ChallengeStatusPending   = "pending"
	ChallengeStatusCompleted = "completed"
	ChallengeStatusCancelled = "cancelled"
)

// ChallengeNotFoundMessage is the error text for an unknown challenge id. The
// bot uses it to tell a missing challenge from a missing player.
const ChallengeNotFoundMessage = "challenge not found"

// ChallengeIDPrefix marks challenge ids so a /start argument can be told
// apart from a referral code.
const ChallengeIDPrefix = "ch_"

// IsChallengeID reports whether s looks like a challenge id.
func IsChallengeID(s string) bool {
	return strings.HasPrefix(s, ChallengeIDPrefix) && len(s) > len(ChallengeIDPrefix)
}

// BeforeSave rejects rows whose dice, scores or money do not add up.
func (c *Challenge) BeforeSave(tx *gorm.DB) error {
	if !IsChallengeID(c.ChallengeID) || c.CreatorTelegramID == "" {
		return gorm.ErrInvalidData
	}
	if !c.BetAmount.IsPositive() {
		return gorm.ErrInvalidData
	}
	if !validThrow(c.CreatorDie1, c.CreatorDie2, c.CreatorDie3, c.CreatorScore) {
		return gorm.ErrInvalidData
	}
	if c.Payout.IsNegative() || c.HouseFee.IsNegative() || c.InviterFee.IsNegative() {
		return gorm.ErrInvalidData
	}

	switch c.Status {
	case ChallengeStatusPending, ChallengeStatusCancelled:
		if c.OpponentID != nil {
			return gorm.ErrInvalidData
		}
	case ChallengeStatusCompleted:
		if c.OpponentID == nil || *c.OpponentID == c.CreatorID {
			return gorm.ErrInvalidData
		}
		if !validThrow(c.OpponentDie1, c.OpponentDie2, c.OpponentDie3, c.OpponentScore) {
			return gorm.ErrInvalidData
		}
	default:
		return gorm.ErrInvalidData
	}
	return nil
}

// IsTie reports whether a settled challenge ended level.
func (c *Challenge) IsTie() bool {
	return c.Status == ChallengeStatusCompleted && c.WinnerTelegramID == ""
}

func validThrow(d1, d2, d3, score int) bool {
	for _, d := range []int{d1, d2, d3} {
		if d < 1 || d > DieFaces {
			return false
		}
	}
	return score == d1+d2+d3
}

func (Challenge) TableName() string {
	return "challenges"
}

// Package api holds the JSON shapes shared by the HTTP server and its clients.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mroshb/dice_game/internal/models"
	"github.com/shopspring/decimal"
)

// FlexString accepts either a JSON string or a JSON number. Telegram ids
// arrive as numbers from some clients and as strings from others.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

type RegisterRequest struct {
	TelegramID   FlexString `json:"telegram_id"`
	ReferralCode string     `json:"referral_code"`
}

type RollRequest struct {
	TelegramID FlexString `json:"telegram_id"`
}

type RollResponse struct {
	Message string          `json:"message"`
	Total   int             `json:"total"`
	Balance decimal.Decimal `json:"balance"`
	Dice    []int           `json:"dice"`
}

// CreateRoomRequest mirrors what the web client posts. max_players and
// total_bet_amount may be numbers or numeric strings. status is ignored.
type CreateRoomRequest struct {
	RoomID         string          `json:"room_id"`
	MaxPlayers     json.Number     `json:"max_players"`
	TotalBetAmount decimal.Decimal `json:"total_bet_amount"`
	Creator        FlexString      `json:"creator"`
	Status         string          `json:"status,omitempty"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

type JoinRoomResponse struct {
	Success        bool   `json:"success"`
	RoomID         string `json:"room_id"`
	CurrentPlayers int    `json:"current_players"`
}

type ReferralResponse struct {
	ReferralCode     string          `json:"referral_code"`
	InvitedCount     int64           `json:"invited_count"`
	ReferralEarnings decimal.Decimal `json:"referral_earnings"`
}

type OpenChallengeRequest struct {
	TelegramID FlexString      `json:"telegram_id"`
	BetAmount  decimal.Decimal `json:"bet_amount"`
}

// ChallengeActionRequest names the player accepting or cancelling a challenge.
type ChallengeActionRequest struct {
	TelegramID FlexString `json:"telegram_id"`
}

// ChallengeResponse carries the challenge and the caller's balance after the call.
type ChallengeResponse struct {
	Challenge Challenge       `json:"challenge"`
	Balance   decimal.Decimal `json:"balance"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx reply. Balance and Required
// are set on INSUFFICIENT_FUNDS.
type ErrorResponse struct {
	Error    string           `json:"error"`
	Code     string           `json:"code"`
	Balance  *decimal.Decimal `json:"balance,omitempty"`
	Required *decimal.Decimal `json:"required,omitempty"`
}

// Rows are served as stored.
type (
	Account    = models.Account
	GameRecord = models.GameRecord
	Room       = models.Room
	Challenge  = models.Challenge
)

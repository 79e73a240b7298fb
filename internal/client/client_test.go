package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Roll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/roll_dice", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req["telegram_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"win","total":12,"balance":990,"dice":[4,4,4]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "", time.Second)
	resp, err := c.Roll(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "win", resp.Message)
	assert.Equal(t, 12, resp.Total)
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(990)))
	assert.Equal(t, []int{4, 4, 4}, resp.Dice)
}

func TestClient_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "insufficient balance",
			status:   http.StatusBadRequest,
			body:     `{"error":"insufficient balance","code":"INSUFFICIENT_FUNDS"}`,
			wantCode: errors.ErrCodeInsufficientFunds,
			wantMsg:  "insufficient balance",
		},
		{
			name:     "duplicate",
			status:   http.StatusConflict,
			body:     `{"error":"account already registered","code":"ALREADY_EXISTS"}`,
			wantCode: errors.ErrCodeAlreadyExists,
			wantMsg:  "account already registered",
		},
		{
			name:     "plain text failure",
			status:   http.StatusBadGateway,
			body:     `bad gateway`,
			wantCode: errors.ErrCodeInternalError,
			wantMsg:  "backend returned 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "", time.Second).Register(context.Background(), "42", "")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			assert.Equal(t, tt.wantMsg, errors.MessageOf(err))
		})
	}
}

func TestClient_InsufficientFundsDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"insufficient balance","code":"INSUFFICIENT_FUNDS","balance":40,"required":100}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", time.Second).Roll(context.Background(), "42")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInsufficientFunds, errors.CodeOf(err))

	detail, ok := errors.FundsOf(err)
	require.True(t, ok)
	assert.True(t, detail.Balance.Equal(decimal.NewFromInt(40)))
	assert.True(t, detail.Required.Equal(decimal.NewFromInt(100)))
}

func TestClient_SignsRequests(t *testing.T) {
	const secret = "test_secret_key_minimum_32_chars"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims, err := security.ValidateServiceToken(token, secret)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid or expired token","code":"UNAUTHORIZED"}`))
			return
		}
		assert.Equal(t, "bot", claims.Service)
		_ = json.NewEncoder(w).Encode([]api.Room{{RoomID: "room_1", MaxPlayers: 5, Status: "waiting"}})
	}))
	defer srv.Close()

	rooms, err := New(srv.URL, secret, time.Second).Rooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "room_1", rooms[0].RoomID)

	_, err = New(srv.URL, "", time.Second).Rooms(context.Background())
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
}

func TestClient_Games(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/42/games", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id":2,"die1":1,"die2":2,"die3":3,"total":6,"outcome":"loss","balance_after":900}]`))
	}))
	defer srv.Close()

	records, err := New(srv.URL, "", time.Second).Games(context.Background(), "42", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 6, records[0].Total)
	assert.True(t, records[0].BalanceAfter.Equal(decimal.NewFromInt(900)))
}

func TestClient_Challenges(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "7", req["telegram_id"])

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/challenges" {
			assert.Equal(t, float64(300), req["bet_amount"])
			_, _ = w.Write([]byte(`{"challenge":{"challenge_id":"ch_1","status":"pending","creator_score":11,"bet_amount":300},"balance":700}`))
			return
		}
		_, _ = w.Write([]byte(`{"challenge":{"challenge_id":"ch_1","status":"cancelled","bet_amount":300},"balance":1000}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)

	opened, err := c.OpenChallenge(context.Background(), "7", decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.Equal(t, "ch_1", opened.Challenge.ChallengeID)
	assert.Equal(t, 11, opened.Challenge.CreatorScore)
	assert.True(t, opened.Balance.Equal(decimal.NewFromInt(700)))

	cancelled, err := c.CancelChallenge(context.Background(), "ch_1", "7")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Challenge.Status)

	_, err = c.AcceptChallenge(context.Background(), "ch_1", "7")
	require.NoError(t, err)

	assert.Equal(t, []string{"/challenges", "/challenges/ch_1/cancel", "/challenges/ch_1/accept"}, paths)
}

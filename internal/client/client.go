// Package client is the bot's typed view of the game backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
)

const tokenTTL = 5 * time.Minute

// Client calls the backend over JSON/HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	secret     string
	service    string
}

// New returns a client for baseURL. A non-empty secret makes every request
// carry a freshly signed service token.
func New(baseURL, secret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		secret:     secret,
		service:    "bot",
	}
}

func (c *Client) Register(ctx context.Context, telegramID, referralCode string) (*api.Account, error) {
	var account api.Account
	req := api.RegisterRequest{TelegramID: api.FlexString(telegramID), ReferralCode: referralCode}
	if err := c.do(ctx, http.MethodPost, "/register", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Roll(ctx context.Context, telegramID string) (*api.RollResponse, error) {
	var resp api.RollResponse
	if err := c.do(ctx, http.MethodPost, "/roll_dice", api.RollRequest{TelegramID: api.FlexString(telegramID)}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAccount(ctx context.Context, telegramID string) (*api.Account, error) {
	var account api.Account
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(telegramID), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Games(ctx context.Context, telegramID string, limit int) ([]api.GameRecord, error) {
	path := "/accounts/" + url.PathEscape(telegramID) + "/games?limit=" + strconv.Itoa(limit)
	var records []api.GameRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Referrals(ctx context.Context, telegramID string) (*api.ReferralResponse, error) {
	var resp api.ReferralResponse
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(telegramID)+"/referrals", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rooms fetches the room list served at /history.
func (c *Client) Rooms(ctx context.Context) ([]api.Room, error) {
	var rooms []api.Room
	if err := c.do(ctx, http.MethodGet, "/history", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// OpenChallenge stakes bet on a new challenge created by telegramID.
func (c *Client) OpenChallenge(ctx context.Context, telegramID string, bet decimal.Decimal) (*api.ChallengeResponse, error) {
	var resp api.ChallengeResponse
	req := api.OpenChallengeRequest{TelegramID: api.FlexString(telegramID), BetAmount: bet}
	if err := c.do(ctx, http.MethodPost, "/challenges", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AcceptChallenge(ctx context.Context, challengeID, telegramID string) (*api.ChallengeResponse, error) {
	return c.challengeAction(ctx, challengeID, "accept", telegramID)
}

func (c *Client) CancelChallenge(ctx context.Context, challengeID, telegramID string) (*api.ChallengeResponse, error) {
	return c.challengeAction(ctx, challengeID, "cancel", telegramID)
}

func (c *Client) challengeAction(ctx context.Context, challengeID, action, telegramID string) (*api.ChallengeResponse, error) {
	var resp api.ChallengeResponse
	path := "/challenges/" + url.PathEscape(challengeID) + "/" + action
	if err := c.do(ctx, http.MethodPost, path, api.ChallengeActionRequest{TelegramID: api.FlexString(telegramID)}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		token, err := security.GenerateServiceToken(c.service, c.secret, tokenTTL)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to sign request")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "backend unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr api.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			code := apiErr.Code
			if code == "" {
				code = errors.ErrCodeInternalError
			}
			if code == errors.ErrCodeInsufficientFunds && apiErr.Balance != nil && apiErr.Required != nil {
				return errors.NewInsufficientFunds(*apiErr.Balance, *apiErr.Required)
			}
			return errors.New(code, apiErr.Error)
		}
		return errors.New(errors.ErrCodeInternalError, fmt.Sprintf("backend returned %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode response")
	}
	return nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
)

// OpenChallenge handles POST /challenges.
func (h *HandlerManager) OpenChallenge(c *gin.Context) {
	var req api.OpenChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !h.allowPlayer(c, req.TelegramID.String()) {
		return
	}

	res, err := h.Challenges.Open(c.Request.Context(), req.TelegramID.String(), req.BetAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	respondChallenge(c, res, res.Creator)
}

// AcceptChallenge handles POST /challenges/:challenge_id/accept.
func (h *HandlerManager) AcceptChallenge(c *gin.Context) {
	var req api.ChallengeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !h.allowPlayer(c, req.TelegramID.String()) {
		return
	}

	res, err := h.Challenges.Accept(c.Request.Context(), c.Param("challenge_id"), req.TelegramID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	respondChallenge(c, res, res.Opponent)
}

// CancelChallenge handles POST /challenges/:challenge_id/cancel.
func (h *HandlerManager) CancelChallenge(c *gin.Context) {
	var req api.ChallengeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.Challenges.Cancel(c.Request.Context(), c.Param("challenge_id"), req.TelegramID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	respondChallenge(c, res, res.Creator)
}

// GetChallenge handles GET /challenges/:challenge_id.
func (h *HandlerManager) GetChallenge(c *gin.Context) {
	challenge, err := h.Challenges.Get(c.Request.Context(), c.Param("challenge_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// allowPlayer applies the per-player budget to calls that stake coins.
func (h *HandlerManager) allowPlayer(c *gin.Context, rawID string) bool {
	telegramID, ok := security.NormalizeIdentifier(rawID)
	if telegramID == "" {
		badRequest(c, "telegram_id is required")
		return false
	}
	if !ok {
		badRequest(c, "telegram_id is invalid")
		return false
	}
	if h.Limiter != nil && !h.Limiter.CheckUserLimit(c.Request.Context(), telegramID) {
		respondError(c, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, wait a moment"))
		return false
	}
	return true
}

func respondChallenge(c *gin.Context, res *repositories.ChallengeResult, caller *api.Account) {
	body := api.ChallengeResponse{Challenge: *res.Challenge}
	if caller != nil {
		body.Balance = caller.Balance
	}
	c.JSON(http.StatusOK, body)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
)

// RollDice handles POST /roll_dice.
func (h *HandlerManager) RollDice(c *gin.Context) {
	var req api.RollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	telegramID, ok := security.NormalizeIdentifier(req.TelegramID.String())
	if telegramID == "" {
		badRequest(c, "telegram_id is required")
		return
	}
	if !ok {
		badRequest(c, "telegram_id is invalid")
		return
	}

	if h.Limiter != nil && !h.Limiter.CheckUserLimit(c.Request.Context(), telegramID) {
		respondError(c, errors.New(errors.ErrCodeRateLimitExceeded, "too many rolls, wait a moment"))
		return
	}

	outcome, err := h.Rolls.Roll(c.Request.Context(), telegramID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.RollResponse{
		Message: outcome.Result,
		Total:   outcome.Total,
		Balance: outcome.Balance,
		Dice:    outcome.Dice[:],
	})
}

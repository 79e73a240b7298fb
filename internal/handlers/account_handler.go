package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/dice_game/internal/api"
)

// Register handles POST /register.
func (h *HandlerManager) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	account, err := h.Accounts.Register(c.Request.Context(), req.TelegramID.String(), req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetAccount handles GET /accounts/:telegram_id.
func (h *HandlerManager) GetAccount(c *gin.Context) {
	account, err := h.Accounts.GetAccount(c.Request.Context(), c.Param("telegram_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetReferrals handles GET /accounts/:telegram_id/referrals.
func (h *HandlerManager) GetReferrals(c *gin.Context) {
	summary, err := h.Accounts.Referrals(c.Request.Context(), c.Param("telegram_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.ReferralResponse{
		ReferralCode:     summary.Code,
		InvitedCount:     summary.Invited,
		ReferralEarnings: summary.Earnings,
	})
}

// GetGames handles GET /accounts/:telegram_id/games?limit=N.
func (h *HandlerManager) GetGames(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.Rolls.History(c.Request.Context(), c.Param("telegram_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []api.GameRecord{}
	}

	c.JSON(http.StatusOK, records)
}

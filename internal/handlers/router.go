package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/metrics"
	"github.com/mroshb/dice_game/internal/middleware"
)

// RouterOptions are the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	CORSAllowOrigin string
	ServiceSecret   string
}

// NewRouter builds the gin engine serving every endpoint.
func NewRouter(h *HandlerManager, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), metrics.HTTPMetrics())

	origin := opts.CORSAllowOrigin
	if origin == "" {
		origin = "*"
	}
	router.Use(middleware.CORS(origin))

	router.GET("/healthz", h.Health)
	router.GET("/metrics", metrics.Handler())

	// Authenticated service callers such as the bot relay every player
	// from one address; they are limited per player inside the handlers.
	game := router.Group("/")
	game.Use(middleware.ServiceAuth(opts.ServiceSecret))
	if h.Limiter != nil {
		game.Use(middleware.IPRateLimit(h.Limiter))
	}
	{
		game.POST("/register", h.Register)
		game.POST("/roll_dice", h.RollDice)

		game.POST("/create_room", h.CreateRoom)
		game.POST("/join_room", h.JoinRoom)
		game.GET("/history", h.ListRooms)
		game.GET("/rooms/:room_id", h.GetRoom)

		if h.Challenges != nil {
			challenges := game.Group("/challenges")
			challenges.POST("", h.OpenChallenge)
			challenges.GET("/:challenge_id", h.GetChallenge)
			challenges.POST("/:challenge_id/accept", h.AcceptChallenge)
			challenges.POST("/:challenge_id/cancel", h.CancelChallenge)
		}

		accounts := game.Group("/accounts/:telegram_id")
		{
			accounts.GET("", h.GetAccount)
			accounts.GET("/games", h.GetGames)
			accounts.GET("/referrals", h.GetReferrals)
		}
	}

	return router
}

// Health handles GET /healthz.
func (h *HandlerManager) Health(c *gin.Context) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

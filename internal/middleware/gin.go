package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/mroshb/dice_game/pkg/logger"
)

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", kv...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", kv...)
		default:
			logger.Info("HTTP request", kv...)
		}
	}
}

// CORS answers preflight requests and stamps the allowed origin.
func CORS(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// IPRateLimit rejects callers that exceed the per-IP budget. Requests that
// ServiceAuth already attributed to a service are not counted.
func IPRateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ServiceContextKey); ok {
			c.Next()
			return
		}
		if !limiter.CheckIPLimit(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{
				Error: "too many requests, slow down",
				Code:  errors.ErrCodeRateLimitExceeded,
			})
			return
		}
		c.Next()
	}
}

// ServiceContextKey holds the authenticated service name on the gin context.
const ServiceContextKey = "service"

// ServiceAuth requires a bearer token signed with secret. An empty secret
// disables the check.
func ServiceAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Error: "authorization header required",
				Code:  errors.ErrCodeUnauthorized,
			})
			return
		}

		claims, err := security.ValidateServiceToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Error: "invalid or expired token",
				Code:  errors.ErrCodeUnauthorized,
			})
			return
		}

		c.Set(ServiceContextKey, claims.Service)
		c.Next()
	}
}

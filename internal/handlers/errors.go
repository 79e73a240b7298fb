package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/pkg/errors"
)

var statusByCode = map[string]int{
	errors.ErrCodeAlreadyExists:     http.StatusConflict,
	errors.ErrCodeNotFound:          http.StatusNotFound,
	errors.ErrCodeInsufficientFunds: http.StatusBadRequest,
	errors.ErrCodeValidation:        http.StatusBadRequest,
	errors.ErrCodeValidationFailed:  http.StatusConflict,
	errors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
	errors.ErrCodeUnauthorized:      http.StatusUnauthorized,
	errors.ErrCodeInternalError:     http.StatusInternalServerError,
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	message := errors.MessageOf(err)
	if code == errors.ErrCodeInternalError {
		message = "internal server error"
	}
	body := api.ErrorResponse{Error: message, Code: code}
	if detail, ok := errors.FundsOf(err); ok {
		body.Balance = &detail.Balance
		body.Required = &detail.Required
	}
	c.JSON(StatusFor(code), body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: message, Code: errors.ErrCodeValidation})
}

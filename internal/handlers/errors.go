package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/dto"
	"github.com/gin-gonic/gin"
)

// statusFor maps an application error to the HTTP status reported to clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound), errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnsupportedCurrency),
		errors.Is(err, apperrors.ErrCurrencyMismatch),
		errors.Is(err, apperrors.ErrCurrencyConversion):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrRateSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response for err. Server side failures are logged
// with their cause and reported with a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := statusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: msg})
	case status == http.StatusServiceUnavailable:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: apperrors.ErrRateSourceUnavailable.Error()})
	default:
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
	}
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
	"github.com/SscSPs/account_exchange/internal/dto"
	"github.com/SscSPs/account_exchange/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/number/:number", h.getAccountByNumber)
	}
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves an account by its ID, optionally with the balance converted into another currency
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   currency query string false "ISO 4217 code of the currency to report the balance in"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid currency or conversion not possible"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Failure 503 {object} dto.ErrorResponse "Exchange rate service unavailable"
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := domain.ParseAccountID(c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Invalid account id")
		return
	}
	target, ok := h.bindTargetCurrency(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", id.String()), slog.String("currency", string(target)))
	logger.Info("Received request to get account")

	var account *domain.Account
	if target == "" {
		account, err = h.accountService.FindByID(c.Request.Context(), id)
	} else {
		account, err = h.accountService.FindByIDAndConvert(c.Request.Context(), id, target)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByNumber godoc
// @Summary Get an account by number
// @Description Retrieves an account by its IBAN-structured number (spaces allowed, URL-encoded), optionally with the balance converted into another currency
// @Tags accounts
// @Produce  json
// @Param   number path string true "Account number"
// @Param   currency query string false "ISO 4217 code of the currency to report the balance in"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid account number, invalid currency or conversion not possible"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Failure 503 {object} dto.ErrorResponse "Exchange rate service unavailable"
// @Router /accounts/number/{number} [get]
func (h *accountHandler) getAccountByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var uri dto.AccountNumberURI
	if err := c.ShouldBindUri(&uri); err != nil {
		logger.Warn("Invalid account number", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid account number: " + c.Param("number")})
		return
	}
	number, err := domain.ParseAccountNumber(uri.Number)
	if err != nil {
		respondError(c, logger, err, "Invalid account number")
		return
	}
	target, ok := h.bindTargetCurrency(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_number", number.String()), slog.String("currency", string(target)))
	logger.Info("Received request to get account by number")

	var account *domain.Account
	if target == "" {
		account, err = h.accountService.FindByNumber(c.Request.Context(), number)
	} else {
		account, err = h.accountService.FindByNumberAndConvert(c.Request.Context(), number, target)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// bindTargetCurrency reads the optional currency query parameter. An empty result means no conversion.
func (h *accountHandler) bindTargetCurrency(c *gin.Context, logger *slog.Logger) (domain.Currency, bool) {
	var query dto.FindAccountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Invalid currency query parameter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid currency: " + c.Query("currency")})
		return "", false
	}
	if query.Currency == "" {
		return "", true
	}
	target, err := domain.ParseCurrency(query.Currency)
	if err != nil {
		respondError(c, logger, err, "Invalid currency")
		return "", false
	}
	return target, true
}

package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
	"github.com/SscSPs/account_exchange/internal/middleware"
	"github.com/gin-gonic/gin"
)

type housekeepingHandler struct {
	housekeepingService portssvc.HousekeepingSvc
}

func registerHousekeepingRoutes(rg *gin.RouterGroup, housekeepingService portssvc.HousekeepingSvc) {
	h := &housekeepingHandler{housekeepingService: housekeepingService}

	housekeeping := rg.Group("/housekeeping")
	{
		housekeeping.POST("/exchange-rates/evict", h.evictExchangeRates)
	}
}

// evictExchangeRates godoc
// @Summary Evict cached exchange rates
// @Description Drops every cached exchange rate so the next conversion fetches current rates
// @Tags housekeeping
// @Success 204 "Cache evicted"
// @Failure 500 {object} dto.ErrorResponse "Failed to evict exchange rates"
// @Router /housekeeping/exchange-rates/evict [post]
func (h *housekeepingHandler) evictExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.housekeepingService.EvictExchangeRates(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to evict exchange rates")
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/SscSPs/account_exchange/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// homeResponse describes the running service.
type homeResponse struct {
	Message      string `json:"message"`
	BaseCurrency string `json:"baseCurrency"`
}

// registerHomeRoutes registers the service status route
func registerHomeRoutes(group *gin.RouterGroup, cfg *config.Config) {
	group.GET("/", func(ctx *gin.Context) {
		getHome(ctx, cfg)
	})
}

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server and the currency balances are stored in.
// @Tags root
// @Produce json
// @Success 200 {object} handlers.homeResponse
// @Router / [get]
func getHome(ctx *gin.Context, cfg *config.Config) {
	ctx.JSON(http.StatusOK, homeResponse{
		Message:      "Account exchange API v1",
		BaseCurrency: cfg.BaseCurrency.String(),
	})
}

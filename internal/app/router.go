package app

import (
	"github.com/gin-gonic/gin"

	"github.com/brandvault/brandvault-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        h.Auth,
		AuthMiddleware:     m.Auth,
		UserHandler:        h.User,
		ClientHandler:      h.Client,
		WorkspaceHandler:   h.Workspace,
		AssetHandler:       h.Asset,
		ReviewLinkHandler:  h.ReviewLink,
		ReviewHandler:      h.Review,
		RealtimeHandler:    h.Realtime,
		DashboardHandler:   h.Dashboard,
		HealthcheckHandler: h.Healthcheck,
		AllowedOrigins:     cfg.AllowedOrigins,
	})
}

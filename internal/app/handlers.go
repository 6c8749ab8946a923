package app

import (
	"github.com/brandvault/brandvault-backend/internal/handlers"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/realtime"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Client      *handlers.ClientHandler
	Workspace   *handlers.WorkspaceHandler
	Asset       *handlers.AssetHandler
	ReviewLink  *handlers.ReviewLinkHandler
	Review      *handlers.ReviewHandler
	Realtime    *handlers.RealtimeHandler
	Dashboard   *handlers.DashboardHandler
	Healthcheck *handlers.HealthcheckHandler
}

func wireHandlers(log *logger.Logger, s Services, r Repos, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(log, s.Auth),
		User:        handlers.NewUserHandler(log, r.User),
		Client:      handlers.NewClientHandler(log, s.Client),
		Workspace:   handlers.NewWorkspaceHandler(log, s.Workspace),
		Asset:       handlers.NewAssetHandler(log, s.Asset, s.VersionLedger, s.Approval),
		ReviewLink:  handlers.NewReviewLinkHandler(log, s.Review),
		Review:      handlers.NewReviewHandler(log, s.Review),
		Realtime:    handlers.NewRealtimeHandler(log, hub, s.TokenGateway),
		Dashboard:   handlers.NewDashboardHandler(log, s.Dashboard),
		Healthcheck: handlers.NewHealthcheckHandler(),
	}
}

package app

import (
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/platform/blob"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/realtime"
	"github.com/brandvault/brandvault-backend/internal/realtime/bus"
	"github.com/brandvault/brandvault-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Client        services.ClientService
	Workspace     services.WorkspaceService
	Asset         services.AssetService
	VersionLedger services.VersionLedgerService
	TokenGateway  services.TokenGatewayService
	Approval      services.ApprovalService
	Review        services.ReviewService
	Dashboard     services.DashboardService
	Notifier      *services.ReviewNotifier
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	r Repos,
	hub *realtime.SSEHub,
	sseBus bus.Bus,
	store blob.Store,
) Services {
	log.Info("Wiring services...")

	var emitter services.EventEmitter
	if sseBus != nil {
		emitter = services.NewRedisEmitter(sseBus)
	} else {
		emitter = services.NewHubEmitter(hub)
	}
	notifier := services.NewReviewNotifier(log, emitter)

	auth := services.NewAuthService(log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	client := services.NewClientService(log, r.Client)
	workspace := services.NewWorkspaceService(log, r.Workspace, r.WorkspaceAssignment, r.Client, r.User)
	ledger := services.NewVersionLedgerService(log, db, r.Asset, r.AssetVersion)
	gateway := services.NewTokenGatewayService(log, r.ReviewLink)
	approval := services.NewApprovalService(log, db, r.Asset, r.Comment, r.ApprovalAction, notifier)
	asset := services.NewAssetService(log, db, store, blob.DefaultLimits(), ledger, r.Workspace, r.Asset, r.AssetVersion, r.Comment, r.ApprovalAction)
	review := services.NewReviewService(log, db, gateway, approval, ledger, store, r.ReviewLink, r.Workspace, r.Client, r.Asset, r.AssetVersion, r.Comment, r.ApprovalAction)
	dashboard := services.NewDashboardService(log, r.Client, r.Workspace, r.Asset, r.ReviewLink, r.Comment, r.ApprovalAction)

	return Services{
		Auth:          auth,
		Client:        client,
		Workspace:     workspace,
		Asset:         asset,
		VersionLedger: ledger,
		TokenGateway:  gateway,
		Approval:      approval,
		Review:        review,
		Dashboard:     dashboard,
		Notifier:      notifier,
	}
}

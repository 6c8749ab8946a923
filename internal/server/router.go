package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/brandvault/brandvault-backend/internal/handlers"
	"github.com/brandvault/brandvault-backend/internal/middleware"
	"github.com/brandvault/brandvault-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	ClientHandler      *handlers.ClientHandler
	WorkspaceHandler   *handlers.WorkspaceHandler
	AssetHandler       *handlers.AssetHandler
	ReviewLinkHandler  *handlers.ReviewLinkHandler
	ReviewHandler      *handlers.ReviewHandler
	RealtimeHandler    *handlers.RealtimeHandler
	DashboardHandler   *handlers.DashboardHandler
	HealthcheckHandler *handlers.HealthcheckHandler
	AllowedOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api")

	// Public: registration, login, and the token-gated review surface.
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)
	api.POST("/auth/refresh", cfg.AuthHandler.Refresh)

	reviews := api.Group("/reviews/:token")
	{
		reviews.GET("", cfg.ReviewHandler.GetReview)
		reviews.GET("/assets/:assetId", cfg.ReviewHandler.GetAsset)
		reviews.POST("/assets/:assetId/comments", cfg.ReviewHandler.CreateComment)
		reviews.POST("/assets/:assetId/approvals", cfg.ReviewHandler.CreateApproval)
		reviews.GET("/assets/:assetId/download", cfg.ReviewHandler.Download)
		reviews.GET("/assets/:assetId/versions/:versionNumber/download", cfg.ReviewHandler.DownloadVersion)
		reviews.GET("/events", cfg.RealtimeHandler.PublicStream)
	}

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/me", cfg.UserHandler.GetMe)

		protected.POST("/clients", cfg.ClientHandler.Create)
		protected.GET("/clients", cfg.ClientHandler.List)
		protected.GET("/clients/:id", cfg.ClientHandler.Get)
		protected.PUT("/clients/:id", cfg.ClientHandler.Update)
		protected.DELETE("/clients/:id", cfg.ClientHandler.Delete)

		protected.POST("/workspaces", cfg.WorkspaceHandler.Create)
		protected.GET("/workspaces", cfg.WorkspaceHandler.List)
		protected.GET("/workspaces/:id", cfg.WorkspaceHandler.Get)
		protected.PUT("/workspaces/:id", cfg.WorkspaceHandler.Update)
		protected.DELETE("/workspaces/:id", cfg.WorkspaceHandler.Delete)
		protected.GET("/workspaces/:id/assignments", cfg.WorkspaceHandler.ListAssignments)
		protected.POST("/workspaces/:id/assignments", cfg.WorkspaceHandler.AssignUser)
		protected.DELETE("/workspaces/:id/assignments/:userId", cfg.WorkspaceHandler.UnassignUser)

		protected.POST("/assets", cfg.AssetHandler.Upload)
		protected.GET("/assets", cfg.AssetHandler.ListByWorkspace)
		protected.GET("/assets/:id", cfg.AssetHandler.Get)
		protected.PUT("/assets/:id", cfg.AssetHandler.Update)
		protected.DELETE("/assets/:id", cfg.AssetHandler.Delete)
		protected.POST("/assets/:id/versions", cfg.AssetHandler.UploadVersion)
		protected.GET("/assets/:id/versions", cfg.AssetHandler.ListVersions)
		protected.GET("/assets/:id/versions/:versionNumber/download", cfg.AssetHandler.DownloadVersion)
		protected.GET("/assets/:id/download", cfg.AssetHandler.Download)
		protected.POST("/assets/:id/comments", cfg.AssetHandler.CreateComment)
		protected.GET("/assets/:id/comments", cfg.AssetHandler.ListComments)
		protected.POST("/assets/:id/approvals", cfg.AssetHandler.CreateApproval)
		protected.GET("/assets/:id/approvals", cfg.AssetHandler.ListApprovals)

		// Link creation is for Admins and Managers; revoking an exposure
		// entirely is Admin only.
		protected.POST("/review-links",
			cfg.AuthMiddleware.RequireRole(types.UserRoleAdmin, types.UserRoleManager),
			cfg.ReviewLinkHandler.Create)
		protected.GET("/review-links", cfg.ReviewLinkHandler.ListByWorkspace)
		protected.PUT("/review-links/:id",
			cfg.AuthMiddleware.RequireRole(types.UserRoleAdmin, types.UserRoleManager),
			cfg.ReviewLinkHandler.Update)
		protected.POST("/review-links/:id/deactivate",
			cfg.AuthMiddleware.RequireRole(types.UserRoleAdmin, types.UserRoleManager),
			cfg.ReviewLinkHandler.Deactivate)
		protected.DELETE("/review-links/:id",
			cfg.AuthMiddleware.RequireRole(types.UserRoleAdmin),
			cfg.ReviewLinkHandler.Delete)

		protected.GET("/realtime/stream", cfg.RealtimeHandler.Stream)
		protected.POST("/realtime/join", cfg.RealtimeHandler.Join)
		protected.POST("/realtime/leave", cfg.RealtimeHandler.Leave)

		protected.GET("/dashboard", cfg.DashboardHandler.Summary)
	}

	return router
}

package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/brandvault/brandvault-backend/internal/handlers"
	"github.com/brandvault/brandvault-backend/internal/middleware"
	"github.com/brandvault/brandvault-backend/internal/platform/blob"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/realtime"
	"github.com/brandvault/brandvault-backend/internal/repos"
	"github.com/brandvault/brandvault-backend/internal/services"
	"github.com/brandvault/brandvault-backend/internal/types"
)

// routerFixture wires the full route table against an in-memory database so
// tests exercise the paths clients actually hit.
type routerFixture struct {
	router *gin.Engine
	auth   services.AuthService
	assets services.AssetService
	review services.ReviewService
	ws     *types.Workspace
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.Client{},
		&types.Workspace{},
		&types.WorkspaceAssignment{},
		&types.Asset{},
		&types.AssetVersion{},
		&types.ReviewLink{},
		&types.Comment{},
		&types.ApprovalAction{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	userRepo := repos.NewUserRepo(db)
	clientRepo := repos.NewClientRepo(db)
	workspaceRepo := repos.NewWorkspaceRepo(db)
	assignmentRepo := repos.NewWorkspaceAssignmentRepo(db)
	assetRepo := repos.NewAssetRepo(db)
	assetVersionRepo := repos.NewAssetVersionRepo(db)
	reviewLinkRepo := repos.NewReviewLinkRepo(db)
	commentRepo := repos.NewCommentRepo(db)
	approvalRepo := repos.NewApprovalActionRepo(db)

	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	hub := realtime.NewSSEHub(log)
	notifier := services.NewReviewNotifier(log, services.NewHubEmitter(hub))
	auth := services.NewAuthService(log, userRepo, "router-test-secret", 15*time.Minute, 24*time.Hour)
	clientService := services.NewClientService(log, clientRepo)
	workspaceService := services.NewWorkspaceService(log, workspaceRepo, assignmentRepo, clientRepo, userRepo)
	ledger := services.NewVersionLedgerService(log, db, assetRepo, assetVersionRepo)
	gateway := services.NewTokenGatewayService(log, reviewLinkRepo)
	approval := services.NewApprovalService(log, db, assetRepo, commentRepo, approvalRepo, notifier)
	assets := services.NewAssetService(log, db, store, blob.DefaultLimits(), ledger, workspaceRepo, assetRepo, assetVersionRepo, commentRepo, approvalRepo)
	review := services.NewReviewService(log, db, gateway, approval, ledger, store, reviewLinkRepo, workspaceRepo, clientRepo, assetRepo, assetVersionRepo, commentRepo, approvalRepo)
	dashboard := services.NewDashboardService(log, clientRepo, workspaceRepo, assetRepo, reviewLinkRepo, commentRepo, approvalRepo)

	router := NewRouter(RouterConfig{
		AuthHandler:        handlers.NewAuthHandler(log, auth),
		AuthMiddleware:     middleware.NewAuthMiddleware(log, auth),
		UserHandler:        handlers.NewUserHandler(log, userRepo),
		ClientHandler:      handlers.NewClientHandler(log, clientService),
		WorkspaceHandler:   handlers.NewWorkspaceHandler(log, workspaceService),
		AssetHandler:       handlers.NewAssetHandler(log, assets, ledger, approval),
		ReviewLinkHandler:  handlers.NewReviewLinkHandler(log, review),
		ReviewHandler:      handlers.NewReviewHandler(log, review),
		RealtimeHandler:    handlers.NewRealtimeHandler(log, hub, gateway),
		DashboardHandler:   handlers.NewDashboardHandler(log, dashboard),
		HealthcheckHandler: handlers.NewHealthcheckHandler(),
	})

	now := time.Now().UTC()
	owner := uuid.New()
	client := &types.Client{
		ID:          uuid.New(),
		Name:        "Jane Doe",
		Company:     "Acme Co",
		Email:       "jane@acme.test",
		CreatedByID: owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := clientRepo.Create(context.Background(), nil, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	workspace := &types.Workspace{
		ID:          uuid.New(),
		Name:        "Spring Campaign",
		Status:      types.WorkspaceStatusActive,
		ClientID:    client.ID,
		CreatedByID: owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := workspaceRepo.Create(context.Background(), nil, workspace); err != nil {
		t.Fatalf("seed workspace: %v", err)
	}

	return &routerFixture{
		router: router,
		auth:   auth,
		assets: assets,
		review: review,
		ws:     workspace,
	}
}

func (f *routerFixture) do(t *testing.T, method, path, bearer string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) uploadAsset(t *testing.T, content string) *types.Asset {
	t.Helper()
	asset, err := f.assets.Upload(context.Background(), services.UploadAssetInput{
		WorkspaceID:  f.ws.ID,
		Name:         "logo",
		Filename:     "logo.png",
		Size:         int64(len(content)),
		Content:      bytes.NewReader([]byte(content)),
		UploadedByID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return asset
}

func (f *routerFixture) createLink(t *testing.T) *types.ReviewLink {
	t.Helper()
	link, err := f.review.CreateLink(context.Background(), services.CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	return link
}

func (f *routerFixture) registerAdmin(t *testing.T) string {
	t.Helper()
	pair, err := f.auth.Register(context.Background(), services.RegisterInput{
		Name:     "Admin",
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		Password: "correct-horse",
		Role:     "Admin",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return pair.AccessToken
}

func TestPublicVersionDownloadRoute(t *testing.T) {
	f := newRouterFixture(t)
	asset := f.uploadAsset(t, "version-one-bytes")
	link := f.createLink(t)

	path := fmt.Sprintf("/api/reviews/%s/assets/%s/versions/1/download", link.Token, asset.ID)
	rec := f.do(t, http.MethodGet, path, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "logo_v1.png") {
		t.Fatalf("content disposition: got %q", cd)
	}
	if rec.Body.String() != "version-one-bytes" {
		t.Fatalf("body: got %q", rec.Body.String())
	}

	missing := fmt.Sprintf("/api/reviews/%s/assets/%s/versions/5/download", link.Token, asset.ID)
	if rec := f.do(t, http.MethodGet, missing, "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing version: want=404 got=%d", rec.Code)
	}
}

func TestPublicReviewOverviewRoute(t *testing.T) {
	f := newRouterFixture(t)
	f.uploadAsset(t, "bytes")
	link := f.createLink(t)

	rec := f.do(t, http.MethodGet, "/api/reviews/"+link.Token, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"expires_at"`) || !strings.Contains(body, `"workspace_name"`) {
		t.Fatalf("overview missing summary fields: %s", body)
	}
	if strings.Contains(body, "jane@acme.test") {
		t.Fatalf("overview leaks client email: %s", body)
	}
}

func TestAgencyVersionDownloadRoute(t *testing.T) {
	f := newRouterFixture(t)
	asset := f.uploadAsset(t, "agency-bytes")
	token := f.registerAdmin(t)

	path := fmt.Sprintf("/api/assets/%s/versions/1/download", asset.ID)
	if rec := f.do(t, http.MethodGet, path, "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: want=401 got=%d", rec.Code)
	}

	rec := f.do(t, http.MethodGet, path, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "logo_v1.png") {
		t.Fatalf("content disposition: got %q", cd)
	}
}

func TestReviewLinkUpdateRoute(t *testing.T) {
	f := newRouterFixture(t)
	link := f.createLink(t)
	token := f.registerAdmin(t)

	rec := f.do(t, http.MethodPut, "/api/review-links/"+link.ID.String(), token, `{"expires_in_days":30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPut, "/api/review-links/"+link.ID.String(), token, `{"expires_in_days":91}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range: want=400 got=%d body=%s", rec.Code, rec.Body.String())
	}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/realtime"
	"github.com/brandvault/brandvault-backend/internal/repos"
	"github.com/brandvault/brandvault-backend/internal/types"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func mustTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

type testRepos struct {
	user         repos.UserRepo
	client       repos.ClientRepo
	workspace    repos.WorkspaceRepo
	assignment   repos.WorkspaceAssignmentRepo
	asset        repos.AssetRepo
	assetVersion repos.AssetVersionRepo
	reviewLink   repos.ReviewLinkRepo
	comment      repos.CommentRepo
	approval     repos.ApprovalActionRepo
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		user:         repos.NewUserRepo(db),
		client:       repos.NewClientRepo(db),
		workspace:    repos.NewWorkspaceRepo(db),
		assignment:   repos.NewWorkspaceAssignmentRepo(db),
		asset:        repos.NewAssetRepo(db),
		assetVersion: repos.NewAssetVersionRepo(db),
		reviewLink:   repos.NewReviewLinkRepo(db),
		comment:      repos.NewCommentRepo(db),
		approval:     repos.NewApprovalActionRepo(db),
	}
}

// captureEmitter records broadcast messages for assertions.
type captureEmitter struct {
	mu       sync.Mutex
	messages []realtime.SSEMessage
}

func (e *captureEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, msg)
	return nil
}

func (e *captureEmitter) all() []realtime.SSEMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEMessage, len(e.messages))
	copy(out, e.messages)
	return out
}

func seedUser(t *testing.T, r testRepos) *types.User {
	t.Helper()
	now := time.Now().UTC()
	user := &types.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		PasswordHash: "x",
		Name:         "Test User",
		Role:         types.UserRoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.user.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedWorkspace(t *testing.T, r testRepos, createdBy uuid.UUID) *types.Workspace {
	t.Helper()
	now := time.Now().UTC()
	client := &types.Client{
		ID:          uuid.New(),
		Name:        "Jane Doe",
		Company:     "Acme Co",
		Email:       fmt.Sprintf("%s@acme.test", uuid.New().String()[:8]),
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.client.Create(context.Background(), nil, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	workspace := &types.Workspace{
		ID:          uuid.New(),
		Name:        "Spring Campaign",
		Status:      types.WorkspaceStatusActive,
		ClientID:    client.ID,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.workspace.Create(context.Background(), nil, workspace); err != nil {
		t.Fatalf("seed workspace: %v", err)
	}
	return workspace
}

func seedAsset(t *testing.T, r testRepos, workspaceID, uploadedBy uuid.UUID) *types.Asset {
	t.Helper()
	now := time.Now().UTC()
	asset := &types.Asset{
		ID:             uuid.New(),
		Name:           "logo",
		FileType:       ".png",
		CurrentVersion: 1,
		Status:         types.AssetStatusDraft,
		WorkspaceID:    workspaceID,
		UploadedByID:   uploadedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.asset.Create(context.Background(), nil, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	version := &types.AssetVersion{
		ID:            uuid.New(),
		VersionNumber: 1,
		FilePath:      "2026/08/" + uuid.New().String() + "_logo.png",
		FileSize:      128,
		AssetID:       asset.ID,
		UploadedByID:  uploadedBy,
		CreatedAt:     now,
	}
	if err := r.assetVersion.Create(context.Background(), nil, version); err != nil {
		t.Fatalf("seed asset version: %v", err)
	}
	return asset
}

func seedReviewLink(t *testing.T, r testRepos, workspaceID, createdBy uuid.UUID, active bool, expiresAt time.Time) *types.ReviewLink {
	t.Helper()
	token, err := generateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	now := time.Now().UTC()
	link := &types.ReviewLink{
		ID:          uuid.New(),
		Token:       token,
		ExpiresAt:   expiresAt,
		IsActive:    active,
		WorkspaceID: workspaceID,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.reviewLink.Create(context.Background(), nil, link); err != nil {
		t.Fatalf("seed review link: %v", err)
	}
	return link
}

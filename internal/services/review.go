package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
	"github.com/brandvault/brandvault-backend/internal/platform/blob"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/repos"
	"github.com/brandvault/brandvault-backend/internal/types"
)

const (
	minLinkExpiryDays     = 1
	maxLinkExpiryDays     = 90
	defaultLinkExpiryDays = 7
)

// PublicReview is what an anonymous reviewer sees after their token resolves:
// display names, when the link runs out, and the assets in scope. Entity rows
// stay server-side so a bare token never exposes client contact details.
type PublicReview struct {
	WorkspaceName string        `json:"workspace_name"`
	ClientName    string        `json:"client_name"`
	ExpiresAt     time.Time     `json:"expires_at"`
	Assets        []types.Asset `json:"assets"`
}

// PublicAsset is the per-asset review view with full history.
type PublicAsset struct {
	Asset     *types.Asset           `json:"asset"`
	Versions  []types.AssetVersion   `json:"versions"`
	Comments  []types.Comment        `json:"comments"`
	Approvals []types.ApprovalAction `json:"approvals"`
}

// VersionDownload streams a stored version file to the caller. The caller
// owns closing Content.
type VersionDownload struct {
	Content     io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

type CreateReviewLinkInput struct {
	WorkspaceID   uuid.UUID
	ExpiresInDays int
	CreatedByID   uuid.UUID
}

type UpdateReviewLinkInput struct {
	ExpiresInDays *int
	IsActive      *bool
}

// ReviewService is the review surface: agency-side link lifecycle plus every
// operation reachable with a bare token. All public operations resolve the
// token first and stay confined to the resolved workspace.
type ReviewService interface {
	CreateLink(ctx context.Context, in CreateReviewLinkInput) (*types.ReviewLink, error)
	ListLinks(ctx context.Context, workspaceID uuid.UUID) ([]types.ReviewLink, error)
	UpdateLink(ctx context.Context, linkID uuid.UUID, in UpdateReviewLinkInput) (*types.ReviewLink, error)
	DeactivateLink(ctx context.Context, linkID uuid.UUID) (*types.ReviewLink, error)
	DeleteLink(ctx context.Context, linkID uuid.UUID) error

	GetPublicReview(ctx context.Context, token string) (*PublicReview, error)
	GetPublicAsset(ctx context.Context, token string, assetID uuid.UUID) (*PublicAsset, error)
	CreateClientComment(ctx context.Context, token string, assetID uuid.UUID, authorName, content string) (*types.Comment, error)
	CreateClientApproval(ctx context.Context, token string, assetID uuid.UUID, actionType string, comment *string, doneByName string) (*types.ApprovalAction, error)
	DownloadPublicVersion(ctx context.Context, token string, assetID uuid.UUID, versionNumber *int) (*VersionDownload, error)
}

type reviewService struct {
	log              *logger.Logger
	db               *gorm.DB
	gateway          TokenGatewayService
	approvals        ApprovalService
	ledger           VersionLedgerService
	store            blob.Store
	reviewLinkRepo   repos.ReviewLinkRepo
	workspaceRepo    repos.WorkspaceRepo
	clientRepo       repos.ClientRepo
	assetRepo        repos.AssetRepo
	assetVersionRepo repos.AssetVersionRepo
	commentRepo      repos.CommentRepo
	approvalRepo     repos.ApprovalActionRepo
}

func NewReviewService(
	log *logger.Logger,
	db *gorm.DB,
	gateway TokenGatewayService,
	approvals ApprovalService,
	ledger VersionLedgerService,
	store blob.Store,
	reviewLinkRepo repos.ReviewLinkRepo,
	workspaceRepo repos.WorkspaceRepo,
	clientRepo repos.ClientRepo,
	assetRepo repos.AssetRepo,
	assetVersionRepo repos.AssetVersionRepo,
	commentRepo repos.CommentRepo,
	approvalRepo repos.ApprovalActionRepo,
) ReviewService {
	return &reviewService{
		log:              log.With("service", "ReviewService"),
		db:               db,
		gateway:          gateway,
		approvals:        approvals,
		ledger:           ledger,
		store:            store,
		reviewLinkRepo:   reviewLinkRepo,
		workspaceRepo:    workspaceRepo,
		clientRepo:       clientRepo,
		assetRepo:        assetRepo,
		assetVersionRepo: assetVersionRepo,
		commentRepo:      commentRepo,
		approvalRepo:     approvalRepo,
	}
}

// generateToken returns 32 bytes of crypto randomness as unpadded
// base64url, safe to embed in a URL path.
func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func (s *reviewService) CreateLink(ctx context.Context, in CreateReviewLinkInput) (*types.ReviewLink, error) {
	days := in.ExpiresInDays
	if days == 0 {
		days = defaultLinkExpiryDays
	}
	if days < minLinkExpiryDays || days > maxLinkExpiryDays {
		return nil, apierr.BadRequest("expires_in_days must be between %d and %d", minLinkExpiryDays, maxLinkExpiryDays)
	}

	if _, err := s.workspaceRepo.GetByID(ctx, nil, in.WorkspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("workspace not found")
		}
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	link := &types.ReviewLink{
		ID:          uuid.New(),
		Token:       token,
		ExpiresAt:   now.AddDate(0, 0, days),
		IsActive:    true,
		WorkspaceID: in.WorkspaceID,
		CreatedByID: in.CreatedByID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reviewLinkRepo.Create(ctx, nil, link); err != nil {
		return nil, err
	}
	s.log.Info("Review link created", "workspaceID", in.WorkspaceID, "linkID", link.ID, "expiresAt", link.ExpiresAt)
	return link, nil
}

func (s *reviewService) ListLinks(ctx context.Context, workspaceID uuid.UUID) ([]types.ReviewLink, error) {
	if _, err := s.workspaceRepo.GetByID(ctx, nil, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("workspace not found")
		}
		return nil, err
	}
	return s.reviewLinkRepo.ListByWorkspace(ctx, nil, workspaceID)
}

// UpdateLink extends or shortens a link's lifetime, counted from now, and can
// flip it active again after a deactivation.
func (s *reviewService) UpdateLink(ctx context.Context, linkID uuid.UUID, in UpdateReviewLinkInput) (*types.ReviewLink, error) {
	link, err := s.reviewLinkRepo.GetByID(ctx, nil, linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("review link not found")
		}
		return nil, err
	}

	now := time.Now().UTC()
	if in.ExpiresInDays != nil {
		days := *in.ExpiresInDays
		if days < minLinkExpiryDays || days > maxLinkExpiryDays {
			return nil, apierr.BadRequest("expires_in_days must be between %d and %d", minLinkExpiryDays, maxLinkExpiryDays)
		}
		link.ExpiresAt = now.AddDate(0, 0, days)
	}
	if in.IsActive != nil {
		link.IsActive = *in.IsActive
	}
	link.UpdatedAt = now
	if err := s.reviewLinkRepo.Update(ctx, nil, link); err != nil {
		return nil, err
	}
	s.log.Info("Review link updated", "linkID", link.ID, "expiresAt", link.ExpiresAt, "isActive", link.IsActive)
	return link, nil
}

func (s *reviewService) DeactivateLink(ctx context.Context, linkID uuid.UUID) (*types.ReviewLink, error) {
	link, err := s.reviewLinkRepo.GetByID(ctx, nil, linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("review link not found")
		}
		return nil, err
	}
	link.IsActive = false
	link.UpdatedAt = time.Now().UTC()
	if err := s.reviewLinkRepo.Update(ctx, nil, link); err != nil {
		return nil, err
	}
	return link, nil
}

// DeleteLink removes the link but keeps the comments and approvals it
// produced, detaching their provenance first.
func (s *reviewService) DeleteLink(ctx context.Context, linkID uuid.UUID) error {
	if _, err := s.reviewLinkRepo.GetByID(ctx, nil, linkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("review link not found")
		}
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.ClearReviewLink(ctx, tx, linkID); err != nil {
			return err
		}
		if err := s.approvalRepo.ClearReviewLink(ctx, tx, linkID); err != nil {
			return err
		}
		return s.reviewLinkRepo.Delete(ctx, tx, linkID)
	})
}

func (s *reviewService) GetPublicReview(ctx context.Context, token string) (*PublicReview, error) {
	scope, err := s.gateway.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, nil, scope.WorkspaceID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, nil, workspace.ClientID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	assets, err := s.assetRepo.ListByWorkspace(ctx, nil, scope.WorkspaceID)
	if err != nil {
		return nil, err
	}

	clientName := ""
	if client != nil {
		clientName = client.Name
	}
	return &PublicReview{
		WorkspaceName: workspace.Name,
		ClientName:    clientName,
		ExpiresAt:     scope.ExpiresAt,
		Assets:        assets,
	}, nil
}

func (s *reviewService) GetPublicAsset(ctx context.Context, token string, assetID uuid.UUID) (*PublicAsset, error) {
	scope, err := s.gateway.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.GetByIDInWorkspace(ctx, nil, assetID, scope.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("asset not found")
		}
		return nil, err
	}

	versions, err := s.assetVersionRepo.ListByAsset(ctx, nil, asset.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByAsset(ctx, nil, asset.ID)
	if err != nil {
		return nil, err
	}
	approvals, err := s.approvalRepo.ListByAsset(ctx, nil, asset.ID)
	if err != nil {
		return nil, err
	}

	return &PublicAsset{Asset: asset, Versions: versions, Comments: comments, Approvals: approvals}, nil
}

func (s *reviewService) CreateClientComment(ctx context.Context, token string, assetID uuid.UUID, authorName, content string) (*types.Comment, error) {
	scope, err := s.gateway.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.approvals.RecordComment(ctx, assetID, scope, RecordCommentInput{
		AuthorName: authorName,
		AuthorType: types.AuthorTypeClient,
		Content:    content,
	})
}

func (s *reviewService) CreateClientApproval(ctx context.Context, token string, assetID uuid.UUID, actionType string, comment *string, doneByName string) (*types.ApprovalAction, error) {
	scope, err := s.gateway.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.approvals.RecordApproval(ctx, assetID, scope, RecordApprovalInput{
		ActionType: actionType,
		Comment:    comment,
		DoneByName: doneByName,
		DoneByType: types.AuthorTypeClient,
	})
}

// DownloadPublicVersion streams a version file; versionNumber nil means the
// asset's current version.
func (s *reviewService) DownloadPublicVersion(ctx context.Context, token string, assetID uuid.UUID, versionNumber *int) (*VersionDownload, error) {
	scope, err := s.gateway.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.GetByIDInWorkspace(ctx, nil, assetID, scope.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("asset not found")
		}
		return nil, err
	}

	number := asset.CurrentVersion
	if versionNumber != nil {
		number = *versionNumber
	}
	version, err := s.ledger.Get(ctx, asset.ID, number)
	if err != nil {
		return nil, err
	}

	content, err := s.store.Open(ctx, version.FilePath)
	if err != nil {
		s.log.Error("Failed to open stored version file", "assetID", asset.ID, "version", number, "error", err)
		return nil, apierr.NotFound("file not found in storage")
	}

	return &VersionDownload{
		Content:     content,
		Filename:    fmt.Sprintf("%s_v%d%s", asset.Name, version.VersionNumber, asset.FileType),
		ContentType: contentTypeForExtension(asset.FileType),
		Size:        version.FileSize,
	}, nil
}

func contentTypeForExtension(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = filepath.Ext(ext)
	}
	if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

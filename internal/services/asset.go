package services

import (
	"context"
	"errors"
	"fmt"
	"io"
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

type UploadAssetInput struct {
	WorkspaceID  uuid.UUID
	Name         string
	Filename     string
	Size         int64
	Content      io.Reader
	UploadedByID uuid.UUID
}

type UploadVersionInput struct {
	AssetID      uuid.UUID
	Filename     string
	Size         int64
	Content      io.Reader
	UploadedByID uuid.UUID
}

type UpdateAssetInput struct {
	Name   *string
	Status *string
}

// AssetService is the agency-side asset surface. Uploading a file creates
// the asset at version 1; subsequent uploads go through the version ledger.
type AssetService interface {
	Upload(ctx context.Context, in UploadAssetInput) (*types.Asset, error)
	UploadVersion(ctx context.Context, in UploadVersionInput) (*types.AssetVersion, error)
	Get(ctx context.Context, id uuid.UUID) (*PublicAsset, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]types.Asset, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateAssetInput) (*types.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Download(ctx context.Context, id uuid.UUID, versionNumber *int) (*VersionDownload, error)
}

type assetService struct {
	log              *logger.Logger
	db               *gorm.DB
	store            blob.Store
	limits           blob.Limits
	ledger           VersionLedgerService
	workspaceRepo    repos.WorkspaceRepo
	assetRepo        repos.AssetRepo
	assetVersionRepo repos.AssetVersionRepo
	commentRepo      repos.CommentRepo
	approvalRepo     repos.ApprovalActionRepo
}

func NewAssetService(
	log *logger.Logger,
	db *gorm.DB,
	store blob.Store,
	limits blob.Limits,
	ledger VersionLedgerService,
	workspaceRepo repos.WorkspaceRepo,
	assetRepo repos.AssetRepo,
	assetVersionRepo repos.AssetVersionRepo,
	commentRepo repos.CommentRepo,
	approvalRepo repos.ApprovalActionRepo,
) AssetService {
	return &assetService{
		log:              log.With("service", "AssetService"),
		db:               db,
		store:            store,
		limits:           limits,
		ledger:           ledger,
		workspaceRepo:    workspaceRepo,
		assetRepo:        assetRepo,
		assetVersionRepo: assetVersionRepo,
		commentRepo:      commentRepo,
		approvalRepo:     approvalRepo,
	}
}

func (s *assetService) Upload(ctx context.Context, in UploadAssetInput) (*types.Asset, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apierr.BadRequest("name is required")
	}
	if err := s.limits.Validate(in.Filename, in.Size); err != nil {
		return nil, apierr.BadRequest("%s", err.Error())
	}
	if _, err := s.workspaceRepo.GetByID(ctx, nil, in.WorkspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("workspace not found")
		}
		return nil, err
	}

	key, err := s.store.Save(ctx, in.Filename, in.Size, in.Content)
	if err != nil {
		s.log.Error("Failed to store uploaded file", "workspaceID", in.WorkspaceID, "error", err)
		return nil, fmt.Errorf("store file: %w", err)
	}

	now := time.Now().UTC()
	asset := &types.Asset{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(in.Name),
		FileType:       strings.ToLower(filepath.Ext(in.Filename)),
		CurrentVersion: 1,
		Status:         types.AssetStatusDraft,
		WorkspaceID:    in.WorkspaceID,
		UploadedByID:   in.UploadedByID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	version := &types.AssetVersion{
		ID:            uuid.New(),
		VersionNumber: 1,
		FilePath:      key,
		FileSize:      in.Size,
		AssetID:       asset.ID,
		UploadedByID:  in.UploadedByID,
		CreatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.assetRepo.Create(ctx, tx, asset); err != nil {
			return err
		}
		return s.assetVersionRepo.Create(ctx, tx, version)
	})
	if err != nil {
		// The DB write failed; do not leave the file orphaned.
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Warn("Failed to clean up stored file after rollback", "key", key, "error", derr)
		}
		return nil, err
	}

	s.log.Info("Asset uploaded", "assetID", asset.ID, "workspaceID", in.WorkspaceID)
	return asset, nil
}

func (s *assetService) UploadVersion(ctx context.Context, in UploadVersionInput) (*types.AssetVersion, error) {
	if err := s.limits.Validate(in.Filename, in.Size); err != nil {
		return nil, apierr.BadRequest("%s", err.Error())
	}
	if _, err := s.assetRepo.GetByID(ctx, nil, in.AssetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("asset not found")
		}
		return nil, err
	}

	key, err := s.store.Save(ctx, in.Filename, in.Size, in.Content)
	if err != nil {
		s.log.Error("Failed to store uploaded file", "assetID", in.AssetID, "error", err)
		return nil, fmt.Errorf("store file: %w", err)
	}

	version, err := s.ledger.Allocate(ctx, in.AssetID, NewVersionFile{
		FilePath:     key,
		FileSize:     in.Size,
		UploadedByID: in.UploadedByID,
	})
	if err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Warn("Failed to clean up stored file after rollback", "key", key, "error", derr)
		}
		return nil, err
	}
	return version, nil
}

func (s *assetService) Get(ctx context.Context, id uuid.UUID) (*PublicAsset, error) {
	asset, err := s.assetRepo.GetByID(ctx, nil, id)
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

func (s *assetService) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]types.Asset, error) {
	if _, err := s.workspaceRepo.GetByID(ctx, nil, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("workspace not found")
		}
		return nil, err
	}
	return s.assetRepo.ListByWorkspace(ctx, nil, workspaceID)
}

func (s *assetService) Update(ctx context.Context, id uuid.UUID, in UpdateAssetInput) (*types.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("asset not found")
		}
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apierr.BadRequest("name cannot be empty")
		}
		asset.Name = strings.TrimSpace(*in.Name)
	}
	if in.Status != nil {
		status, err := types.ParseAssetStatus(*in.Status)
		if err != nil {
			return nil, apierr.BadRequest("%s", err.Error())
		}
		asset.Status = status
	}
	asset.UpdatedAt = time.Now().UTC()
	if err := s.assetRepo.Update(ctx, nil, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.assetRepo.GetByID(ctx, nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("asset not found")
		}
		return err
	}

	versions, err := s.assetVersionRepo.ListByAsset(ctx, nil, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.assetVersionRepo.DeleteByAsset(ctx, tx, id); err != nil {
			return err
		}
		return s.assetRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	// Storage cleanup after the commit; a leftover file is recoverable, a
	// dangling DB row is not.
	for _, v := range versions {
		if err := s.store.Delete(ctx, v.FilePath); err != nil {
			s.log.Warn("Failed to delete stored version file", "assetID", id, "version", v.VersionNumber, "error", err)
		}
	}
	return nil
}

func (s *assetService) Download(ctx context.Context, id uuid.UUID, versionNumber *int) (*VersionDownload, error) {
	asset, err := s.assetRepo.GetByID(ctx, nil, id)
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

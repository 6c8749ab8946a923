package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/repos"
	"github.com/brandvault/brandvault-backend/internal/types"
)

// NewVersionFile describes the stored file a new version should point at.
type NewVersionFile struct {
	FilePath      string
	ThumbnailPath *string
	FileSize      int64
	UploadedByID  uuid.UUID
}

// VersionLedgerService owns the version history of an asset: numbers are
// allocated monotonically starting at 1 with no gaps or reuse, and version
// rows are append-only once written.
type VersionLedgerService interface {
	Allocate(ctx context.Context, assetID uuid.UUID, file NewVersionFile) (*types.AssetVersion, error)
	List(ctx context.Context, assetID uuid.UUID) ([]types.AssetVersion, error)
	Get(ctx context.Context, assetID uuid.UUID, versionNumber int) (*types.AssetVersion, error)
}

type versionLedgerService struct {
	log              *logger.Logger
	db               *gorm.DB
	assetRepo        repos.AssetRepo
	assetVersionRepo repos.AssetVersionRepo
}

func NewVersionLedgerService(
	log *logger.Logger,
	db *gorm.DB,
	assetRepo repos.AssetRepo,
	assetVersionRepo repos.AssetVersionRepo,
) VersionLedgerService {
	return &versionLedgerService{
		log:              log.With("service", "VersionLedgerService"),
		db:               db,
		assetRepo:        assetRepo,
		assetVersionRepo: assetVersionRepo,
	}
}

// Allocate claims the next version number with a compare-and-swap on the
// asset's current_version and inserts the version row in the same
// transaction. A lost race is retried once; losing twice returns a conflict
// rather than risking a gap or duplicate.
func (s *versionLedgerService) Allocate(ctx context.Context, assetID uuid.UUID, file NewVersionFile) (*types.AssetVersion, error) {
	const attempts = 2

	var allocated *types.AssetVersion
	for attempt := 0; attempt < attempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			asset, err := s.assetRepo.GetByID(ctx, tx, assetID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierr.NotFound("asset not found")
				}
				return err
			}

			nextVersion := asset.CurrentVersion + 1
			rows, err := s.assetRepo.BumpCurrentVersion(ctx, tx, assetID, asset.CurrentVersion, nextVersion)
			if err != nil {
				return err
			}
			if rows == 0 {
				return errVersionRace
			}

			version := &types.AssetVersion{
				ID:            uuid.New(),
				VersionNumber: nextVersion,
				FilePath:      file.FilePath,
				ThumbnailPath: file.ThumbnailPath,
				FileSize:      file.FileSize,
				AssetID:       assetID,
				UploadedByID:  file.UploadedByID,
				CreatedAt:     time.Now().UTC(),
			}
			if err := s.assetVersionRepo.Create(ctx, tx, version); err != nil {
				return err
			}
			allocated = version
			return nil
		})
		if err == nil {
			return allocated, nil
		}
		if !errors.Is(err, errVersionRace) {
			return nil, err
		}
		s.log.Warn("Version allocation lost a race, retrying", "assetID", assetID, "attempt", attempt+1)
	}
	return nil, apierr.Conflict("concurrent version upload detected, please retry")
}

var errVersionRace = errors.New("version allocation race")

func (s *versionLedgerService) List(ctx context.Context, assetID uuid.UUID) ([]types.AssetVersion, error) {
	if _, err := s.assetRepo.GetByID(ctx, nil, assetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("asset not found")
		}
		return nil, err
	}
	return s.assetVersionRepo.ListByAsset(ctx, nil, assetID)
}

func (s *versionLedgerService) Get(ctx context.Context, assetID uuid.UUID, versionNumber int) (*types.AssetVersion, error) {
	version, err := s.assetVersionRepo.GetByNumber(ctx, nil, assetID, versionNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("version %d not found", versionNumber)
		}
		return nil, err
	}
	return version, nil
}

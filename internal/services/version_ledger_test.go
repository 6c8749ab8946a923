package services

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
	"github.com/brandvault/brandvault-backend/internal/repos"
	"github.com/brandvault/brandvault-backend/internal/types"
)

func TestVersionLedgerAllocateSequential(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)
	asset := seedAsset(t, r, workspace.ID, user.ID)

	ledger := NewVersionLedgerService(log, db, r.asset, r.assetVersion)

	for i := 0; i < 4; i++ {
		version, err := ledger.Allocate(context.Background(), asset.ID, NewVersionFile{
			FilePath: "2026/08/file.png",
			FileSize: 64,
		})
		if err != nil {
			t.Fatalf("Allocate %d: %v", i, err)
		}
		if want := i + 2; version.VersionNumber != want {
			t.Fatalf("version number: want=%d got=%d", want, version.VersionNumber)
		}
	}

	versions, err := ledger.List(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(versions) != 5 {
		t.Fatalf("versions: want=5 got=%d", len(versions))
	}
	// Newest first, contiguous 5..1.
	for i, v := range versions {
		if want := 5 - i; v.VersionNumber != want {
			t.Fatalf("versions[%d]: want=%d got=%d", i, want, v.VersionNumber)
		}
	}

	got, err := r.asset.GetByID(context.Background(), nil, asset.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CurrentVersion != 5 {
		t.Fatalf("current version: want=5 got=%d", got.CurrentVersion)
	}
}

func TestVersionLedgerAllocateUnknownAsset(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)

	ledger := NewVersionLedgerService(log, db, r.asset, r.assetVersion)

	_, err := ledger.Allocate(context.Background(), uuid.New(), NewVersionFile{FilePath: "x", FileSize: 1})
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d (err=%v)", got, err)
	}
}

// racingAssetRepo fails the compare-and-swap a fixed number of times before
// delegating, simulating another writer claiming the number first.
type racingAssetRepo struct {
	repos.AssetRepo
	mu        sync.Mutex
	failures  int
	bumpCalls int
}

func (r *racingAssetRepo) BumpCurrentVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, fromVersion, toVersion int) (int64, error) {
	r.mu.Lock()
	r.bumpCalls++
	fail := r.failures > 0
	if fail {
		r.failures--
	}
	r.mu.Unlock()
	if fail {
		return 0, nil
	}
	return r.AssetRepo.BumpCurrentVersion(ctx, tx, id, fromVersion, toVersion)
}

func TestVersionLedgerAllocateRetriesLostRace(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)
	asset := seedAsset(t, r, workspace.ID, user.ID)

	racing := &racingAssetRepo{AssetRepo: r.asset, failures: 1}
	ledger := NewVersionLedgerService(log, db, racing, r.assetVersion)

	version, err := ledger.Allocate(context.Background(), asset.ID, NewVersionFile{FilePath: "x", FileSize: 1})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if version.VersionNumber != 2 {
		t.Fatalf("version number: want=2 got=%d", version.VersionNumber)
	}
	if racing.bumpCalls != 2 {
		t.Fatalf("bump calls: want=2 got=%d", racing.bumpCalls)
	}
}

func TestVersionLedgerAllocateConflictAfterRetries(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)
	asset := seedAsset(t, r, workspace.ID, user.ID)

	racing := &racingAssetRepo{AssetRepo: r.asset, failures: 2}
	ledger := NewVersionLedgerService(log, db, racing, r.assetVersion)

	_, err := ledger.Allocate(context.Background(), asset.ID, NewVersionFile{FilePath: "x", FileSize: 1})
	if got := apierr.StatusOf(err); got != http.StatusConflict {
		t.Fatalf("status: want=409 got=%d (err=%v)", got, err)
	}

	versions, err := r.assetVersion.ListByAsset(context.Background(), nil, asset.ID)
	if err != nil {
		t.Fatalf("ListByAsset: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("no version row may exist for a failed allocation, got %d", len(versions))
	}
}

// memAssetState implements the CAS against in-memory state so concurrent
// allocations exercise the retry path without depending on database locking.
type memAssetState struct {
	repos.AssetRepo
	mu    sync.Mutex
	asset types.Asset
}

func (m *memAssetState) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.asset
	return &snapshot, nil
}

func (m *memAssetState) BumpCurrentVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, fromVersion, toVersion int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.asset.CurrentVersion != fromVersion {
		return 0, nil
	}
	m.asset.CurrentVersion = toVersion
	return 1, nil
}

type memVersionRepo struct {
	repos.AssetVersionRepo
	mu      sync.Mutex
	numbers map[int]bool
}

func (m *memVersionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.AssetVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.numbers[version.VersionNumber] {
		return apierr.Conflict("duplicate version number %d", version.VersionNumber)
	}
	m.numbers[version.VersionNumber] = true
	return nil
}

func TestVersionLedgerConcurrentAllocations(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)

	state := &memAssetState{asset: types.Asset{ID: uuid.New(), CurrentVersion: 1}}
	versionRepo := &memVersionRepo{numbers: map[int]bool{1: true}}
	ledger := NewVersionLedgerService(log, db, state, versionRepo)

	const workers = 16
	var mu sync.Mutex
	var allocated []int
	conflicts := 0

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			version, err := ledger.Allocate(context.Background(), state.asset.ID, NewVersionFile{FilePath: "x", FileSize: 1})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if apierr.StatusOf(err) != http.StatusConflict {
					return err
				}
				conflicts++
				return nil
			}
			allocated = append(allocated, version.VersionNumber)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent allocate: %v", err)
	}

	if len(allocated)+conflicts != workers {
		t.Fatalf("accounting: %d allocated + %d conflicts != %d", len(allocated), conflicts, workers)
	}
	if len(allocated) == 0 {
		t.Fatalf("at least one allocation must succeed")
	}

	// Winners hold exactly 2..n+1 with no gaps or duplicates.
	sort.Ints(allocated)
	for i, n := range allocated {
		if want := i + 2; n != want {
			t.Fatalf("allocated[%d]: want=%d got=%d (all=%v)", i, want, n, allocated)
		}
	}
}

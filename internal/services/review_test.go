package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
	"github.com/brandvault/brandvault-backend/internal/platform/blob"
	"github.com/brandvault/brandvault-backend/internal/types"
)

type reviewFixture struct {
	repos   testRepos
	review  ReviewService
	assets  AssetService
	emitter *captureEmitter
	user    *types.User
	ws      *types.Workspace
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)

	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	emitter := &captureEmitter{}
	notifier := NewReviewNotifier(log, emitter)
	ledger := NewVersionLedgerService(log, db, r.asset, r.assetVersion)
	gateway := NewTokenGatewayService(log, r.reviewLink)
	approval := NewApprovalService(log, db, r.asset, r.comment, r.approval, notifier)
	assets := NewAssetService(log, db, store, blob.DefaultLimits(), ledger, r.workspace, r.asset, r.assetVersion, r.comment, r.approval)
	review := NewReviewService(log, db, gateway, approval, ledger, store, r.reviewLink, r.workspace, r.client, r.asset, r.assetVersion, r.comment, r.approval)

	return &reviewFixture{
		repos:   r,
		review:  review,
		assets:  assets,
		emitter: emitter,
		user:    user,
		ws:      workspace,
	}
}

func (f *reviewFixture) uploadAsset(t *testing.T, name, filename, content string) *types.Asset {
	t.Helper()
	asset, err := f.assets.Upload(context.Background(), UploadAssetInput{
		WorkspaceID:  f.ws.ID,
		Name:         name,
		Filename:     filename,
		Size:         int64(len(content)),
		Content:      bytes.NewReader([]byte(content)),
		UploadedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return asset
}

func TestReviewLinkLifecycle(t *testing.T) {
	f := newReviewFixture(t)

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if !link.IsActive {
		t.Fatalf("new link must be active")
	}
	// Default expiry is seven days out.
	wantExpiry := time.Now().AddDate(0, 0, 7)
	if diff := link.ExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("default expiry off by %v", diff)
	}

	links, err := f.review.ListLinks(context.Background(), f.ws.ID)
	if err != nil {
		t.Fatalf("ListLinks: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("links: want=1 got=%d", len(links))
	}

	deactivated, err := f.review.DeactivateLink(context.Background(), link.ID)
	if err != nil {
		t.Fatalf("DeactivateLink: %v", err)
	}
	if deactivated.IsActive {
		t.Fatalf("link still active after deactivation")
	}

	_, err = f.review.GetPublicReview(context.Background(), link.Token)
	if got := apierr.StatusOf(err); got != http.StatusUnauthorized {
		t.Fatalf("deactivated token: want=401 got=%d (err=%v)", got, err)
	}
}

func TestReviewLinkExpiryBounds(t *testing.T) {
	f := newReviewFixture(t)

	for _, days := range []int{-1, 91, 200} {
		_, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
			WorkspaceID:   f.ws.ID,
			ExpiresInDays: days,
			CreatedByID:   f.user.ID,
		})
		if got := apierr.StatusOf(err); got != http.StatusBadRequest {
			t.Fatalf("days=%d: want=400 got=%d (err=%v)", days, got, err)
		}
	}

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID:   f.ws.ID,
		ExpiresInDays: 90,
		CreatedByID:   f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink days=90: %v", err)
	}
	if link.ExpiresAt.Before(time.Now().AddDate(0, 0, 89)) {
		t.Fatalf("90 day expiry too early: %v", link.ExpiresAt)
	}
}

// The full anonymous review flow: a link is shared, the client opens the
// workspace, approves an asset, and the agency side sees the status move.
func TestClientReviewFlowEndToEnd(t *testing.T) {
	f := newReviewFixture(t)
	asset := f.uploadAsset(t, "logo", "logo.png", "png-bytes")

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	overview, err := f.review.GetPublicReview(context.Background(), link.Token)
	if err != nil {
		t.Fatalf("GetPublicReview: %v", err)
	}
	if overview.WorkspaceName != f.ws.Name {
		t.Fatalf("workspace name: got %q", overview.WorkspaceName)
	}
	if len(overview.Assets) != 1 || overview.Assets[0].ID != asset.ID {
		t.Fatalf("assets: got %v", overview.Assets)
	}

	comment, err := f.review.CreateClientComment(context.Background(), link.Token, asset.ID, "Jane", "love it")
	if err != nil {
		t.Fatalf("CreateClientComment: %v", err)
	}
	if comment.AuthorType != types.AuthorTypeClient {
		t.Fatalf("author type: got %s", comment.AuthorType)
	}

	action, err := f.review.CreateClientApproval(context.Background(), link.Token, asset.ID, "Approved", nil, "Jane")
	if err != nil {
		t.Fatalf("CreateClientApproval: %v", err)
	}
	if action.DoneByName != "Jane" || action.DoneByType != types.AuthorTypeClient {
		t.Fatalf("attribution: got %s/%s", action.DoneByName, action.DoneByType)
	}

	detail, err := f.review.GetPublicAsset(context.Background(), link.Token, asset.ID)
	if err != nil {
		t.Fatalf("GetPublicAsset: %v", err)
	}
	if detail.Asset.Status != types.AssetStatusApproved {
		t.Fatalf("status: want=Approved got=%s", detail.Asset.Status)
	}
	if len(detail.Comments) != 1 || len(detail.Approvals) != 1 {
		t.Fatalf("history: %d comments, %d approvals", len(detail.Comments), len(detail.Approvals))
	}

	// Both writes broadcast to the workspace channel.
	msgs := f.emitter.all()
	if len(msgs) != 2 {
		t.Fatalf("broadcasts: want=2 got=%d", len(msgs))
	}
}

// The anonymous overview carries display names and the link expiry, never
// the client's contact details.
func TestPublicReviewCarriesExpiryNotClientContact(t *testing.T) {
	f := newReviewFixture(t)

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	overview, err := f.review.GetPublicReview(context.Background(), link.Token)
	if err != nil {
		t.Fatalf("GetPublicReview: %v", err)
	}
	if overview.ClientName != "Jane Doe" {
		t.Fatalf("client name: got %q", overview.ClientName)
	}
	if !overview.ExpiresAt.Equal(link.ExpiresAt) {
		t.Fatalf("expiry: want=%v got=%v", link.ExpiresAt, overview.ExpiresAt)
	}

	payload, err := json.Marshal(overview)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)
	if !strings.Contains(body, `"expires_at"`) {
		t.Fatalf("payload missing expiry: %s", body)
	}
	if strings.Contains(body, "@acme.test") || strings.Contains(body, `"email"`) {
		t.Fatalf("payload leaks client contact details: %s", body)
	}
}

func TestUpdateLinkExpiryAndReactivation(t *testing.T) {
	f := newReviewFixture(t)

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if _, err := f.review.DeactivateLink(context.Background(), link.ID); err != nil {
		t.Fatalf("DeactivateLink: %v", err)
	}

	days := 30
	active := true
	updated, err := f.review.UpdateLink(context.Background(), link.ID, UpdateReviewLinkInput{
		ExpiresInDays: &days,
		IsActive:      &active,
	})
	if err != nil {
		t.Fatalf("UpdateLink: %v", err)
	}
	if !updated.IsActive {
		t.Fatalf("link not reactivated")
	}
	wantExpiry := time.Now().AddDate(0, 0, 30)
	if diff := updated.ExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("updated expiry off by %v", diff)
	}
	if _, err := f.review.GetPublicReview(context.Background(), link.Token); err != nil {
		t.Fatalf("reactivated token should resolve: %v", err)
	}

	for _, bad := range []int{0, 91} {
		d := bad
		_, err := f.review.UpdateLink(context.Background(), link.ID, UpdateReviewLinkInput{ExpiresInDays: &d})
		if got := apierr.StatusOf(err); got != http.StatusBadRequest {
			t.Fatalf("days=%d: want=400 got=%d (err=%v)", bad, got, err)
		}
	}

	_, err = f.review.UpdateLink(context.Background(), uuid.New(), UpdateReviewLinkInput{ExpiresInDays: &days})
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("unknown link: want=404 got=%d (err=%v)", got, err)
	}
}

func TestPublicDownloadStreamsCurrentVersion(t *testing.T) {
	f := newReviewFixture(t)
	asset := f.uploadAsset(t, "logo", "logo.png", "first-version")

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	download, err := f.review.DownloadPublicVersion(context.Background(), link.Token, asset.ID, nil)
	if err != nil {
		t.Fatalf("DownloadPublicVersion: %v", err)
	}
	defer download.Content.Close()

	if download.Filename != "logo_v1.png" {
		t.Fatalf("filename: got %q", download.Filename)
	}
	body, err := io.ReadAll(download.Content)
	if err != nil {
		t.Fatalf("read content: %v", err)
	}
	if string(body) != "first-version" {
		t.Fatalf("content: got %q", body)
	}
	if !strings.HasPrefix(download.ContentType, "image/png") {
		t.Fatalf("content type: got %q", download.ContentType)
	}
}

func TestPublicSurfaceCannotReachOtherWorkspaces(t *testing.T) {
	f := newReviewFixture(t)

	otherWorkspace := seedWorkspace(t, f.repos, f.user.ID)
	foreignAsset := seedAsset(t, f.repos, otherWorkspace.ID, f.user.ID)

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	_, err = f.review.GetPublicAsset(context.Background(), link.Token, foreignAsset.ID)
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("foreign asset: want=404 got=%d (err=%v)", got, err)
	}
	_, err = f.review.DownloadPublicVersion(context.Background(), link.Token, foreignAsset.ID, nil)
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("foreign download: want=404 got=%d (err=%v)", got, err)
	}
}

func TestDeleteLinkKeepsHistoryWithoutProvenance(t *testing.T) {
	f := newReviewFixture(t)
	asset := f.uploadAsset(t, "logo", "logo.png", "bytes")

	link, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: f.ws.ID,
		CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if _, err := f.review.CreateClientComment(context.Background(), link.Token, asset.ID, "Jane", "note"); err != nil {
		t.Fatalf("CreateClientComment: %v", err)
	}
	if _, err := f.review.CreateClientApproval(context.Background(), link.Token, asset.ID, "Approved", nil, "Jane"); err != nil {
		t.Fatalf("CreateClientApproval: %v", err)
	}

	if err := f.review.DeleteLink(context.Background(), link.ID); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}

	comments, err := f.repos.comment.ListByAsset(context.Background(), nil, asset.ID)
	if err != nil {
		t.Fatalf("ListByAsset: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("comment deleted with link")
	}
	if comments[0].ReviewLinkID != nil {
		t.Fatalf("comment provenance not cleared")
	}

	approvals, err := f.repos.approval.ListByAsset(context.Background(), nil, asset.ID)
	if err != nil {
		t.Fatalf("ListByAsset: %v", err)
	}
	if len(approvals) != 1 || approvals[0].ReviewLinkID != nil {
		t.Fatalf("approval history not preserved cleanly")
	}

	if _, err := f.repos.reviewLink.GetByID(context.Background(), nil, link.ID); err == nil {
		t.Fatalf("link row should be gone")
	}
}

func TestCreateLinkUnknownWorkspace(t *testing.T) {
	f := newReviewFixture(t)
	_, err := f.review.CreateLink(context.Background(), CreateReviewLinkInput{
		WorkspaceID: uuid.New(),
		CreatedByID: f.user.ID,
	})
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d (err=%v)", got, err)
	}
}

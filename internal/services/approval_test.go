package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
	"github.com/brandvault/brandvault-backend/internal/realtime"
	"github.com/brandvault/brandvault-backend/internal/types"
)

type approvalFixture struct {
	repos   testRepos
	service ApprovalService
	emitter *captureEmitter
	user    *types.User
	asset   *types.Asset
	ws      *types.Workspace
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)
	asset := seedAsset(t, r, workspace.ID, user.ID)

	emitter := &captureEmitter{}
	notifier := NewReviewNotifier(log, emitter)
	service := NewApprovalService(log, db, r.asset, r.comment, r.approval, notifier)

	return &approvalFixture{
		repos:   r,
		service: service,
		emitter: emitter,
		user:    user,
		asset:   asset,
		ws:      workspace,
	}
}

func (f *approvalFixture) assetStatus(t *testing.T) types.AssetStatus {
	t.Helper()
	got, err := f.repos.asset.GetByID(context.Background(), nil, f.asset.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return got.Status
}

func TestRecordApprovalMovesStatusAndAppendsAction(t *testing.T) {
	f := newApprovalFixture(t)

	action, err := f.service.RecordApproval(context.Background(), f.asset.ID, nil, RecordApprovalInput{
		ActionType: "Approved",
		DoneByName: "Alex",
		DoneByType: types.AuthorTypeAgency,
	})
	if err != nil {
		t.Fatalf("RecordApproval: %v", err)
	}
	if action.ActionType != types.ApprovalActionApproved {
		t.Fatalf("action type: got %s", action.ActionType)
	}
	if action.ReviewLinkID != nil {
		t.Fatalf("agency action must not carry a review link id")
	}
	if got := f.assetStatus(t); got != types.AssetStatusApproved {
		t.Fatalf("status: want=Approved got=%s", got)
	}

	msgs := f.emitter.all()
	if len(msgs) != 1 {
		t.Fatalf("broadcasts: want=1 got=%d", len(msgs))
	}
	if msgs[0].Event != realtime.SSEEventNewApproval {
		t.Fatalf("event: want=NewApproval got=%s", msgs[0].Event)
	}
	if msgs[0].Channel != realtime.WorkspaceChannel(f.ws.ID) {
		t.Fatalf("channel: got %s", msgs[0].Channel)
	}
}

func TestRecordApprovalRevisionRequested(t *testing.T) {
	f := newApprovalFixture(t)
	note := "logo too small"

	action, err := f.service.RecordApproval(context.Background(), f.asset.ID, nil, RecordApprovalInput{
		ActionType: "RevisionRequested",
		Comment:    &note,
		DoneByName: "Alex",
		DoneByType: types.AuthorTypeAgency,
	})
	if err != nil {
		t.Fatalf("RecordApproval: %v", err)
	}
	if action.Comment == nil || *action.Comment != note {
		t.Fatalf("comment not persisted")
	}
	if got := f.assetStatus(t); got != types.AssetStatusRevisionRequested {
		t.Fatalf("status: want=RevisionRequested got=%s", got)
	}
}

// Re-approving an approved asset is permitted and appends a second record.
func TestRecordApprovalIdempotentReapproval(t *testing.T) {
	f := newApprovalFixture(t)

	for i := 0; i < 2; i++ {
		_, err := f.service.RecordApproval(context.Background(), f.asset.ID, nil, RecordApprovalInput{
			ActionType: "Approved",
			DoneByName: "Alex",
			DoneByType: types.AuthorTypeAgency,
		})
		if err != nil {
			t.Fatalf("RecordApproval %d: %v", i, err)
		}
	}

	actions, err := f.service.ListApprovals(context.Background(), f.asset.ID, nil)
	if err != nil {
		t.Fatalf("ListApprovals: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("actions: want=2 got=%d", len(actions))
	}
	if got := f.assetStatus(t); got != types.AssetStatusApproved {
		t.Fatalf("status: want=Approved got=%s", got)
	}
}

func TestRecordApprovalInvalidActionType(t *testing.T) {
	f := newApprovalFixture(t)

	_, err := f.service.RecordApproval(context.Background(), f.asset.ID, nil, RecordApprovalInput{
		ActionType: "Maybe",
		DoneByName: "Alex",
		DoneByType: types.AuthorTypeAgency,
	})
	if got := apierr.StatusOf(err); got != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d (err=%v)", got, err)
	}
	if got := f.assetStatus(t); got != types.AssetStatusDraft {
		t.Fatalf("status must not move on invalid input, got %s", got)
	}
}

func TestRecordCommentDoesNotMutateStatus(t *testing.T) {
	f := newApprovalFixture(t)

	comment, err := f.service.RecordComment(context.Background(), f.asset.ID, nil, RecordCommentInput{
		AuthorName: "Alex",
		AuthorType: types.AuthorTypeAgency,
		Content:    "tighten the kerning",
	})
	if err != nil {
		t.Fatalf("RecordComment: %v", err)
	}
	if comment.ReviewLinkID != nil {
		t.Fatalf("agency comment must not carry a review link id")
	}
	if got := f.assetStatus(t); got != types.AssetStatusDraft {
		t.Fatalf("status: want=Draft got=%s", got)
	}

	msgs := f.emitter.all()
	if len(msgs) != 1 || msgs[0].Event != realtime.SSEEventNewComment {
		t.Fatalf("expected one NewComment broadcast, got %v", msgs)
	}
}

func TestScopedOperationsConfinedToWorkspace(t *testing.T) {
	f := newApprovalFixture(t)

	// Asset lives in f.ws; the scope points at a different workspace.
	otherWorkspace := seedWorkspace(t, f.repos, f.user.ID)
	scope := &LinkScope{WorkspaceID: otherWorkspace.ID, ReviewLinkID: uuid.New()}

	_, err := f.service.RecordApproval(context.Background(), f.asset.ID, scope, RecordApprovalInput{
		ActionType: "Approved",
		DoneByName: "Jane",
		DoneByType: types.AuthorTypeClient,
	})
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("cross-workspace approval: want=404 got=%d (err=%v)", got, err)
	}

	_, err = f.service.RecordComment(context.Background(), f.asset.ID, scope, RecordCommentInput{
		AuthorName: "Jane",
		AuthorType: types.AuthorTypeClient,
		Content:    "hello",
	})
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("cross-workspace comment: want=404 got=%d (err=%v)", got, err)
	}

	if _, err := f.service.ListComments(context.Background(), f.asset.ID, scope); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("cross-workspace list: want=404 got err=%v", err)
	}
}

func TestScopedApprovalRecordsProvenance(t *testing.T) {
	f := newApprovalFixture(t)
	link := seedReviewLink(t, f.repos, f.ws.ID, f.user.ID, true, time.Now().Add(24*time.Hour))
	scope := &LinkScope{WorkspaceID: f.ws.ID, ReviewLinkID: link.ID}

	action, err := f.service.RecordApproval(context.Background(), f.asset.ID, scope, RecordApprovalInput{
		ActionType: "Approved",
		DoneByName: "Jane",
		DoneByType: types.AuthorTypeClient,
	})
	if err != nil {
		t.Fatalf("RecordApproval: %v", err)
	}
	if action.ReviewLinkID == nil || *action.ReviewLinkID != link.ID {
		t.Fatalf("review link provenance not recorded")
	}
	if action.DoneByType != types.AuthorTypeClient {
		t.Fatalf("done by type: got %s", action.DoneByType)
	}
}

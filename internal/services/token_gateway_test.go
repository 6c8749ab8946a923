package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
)

func TestTokenGatewayResolveValid(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)
	link := seedReviewLink(t, r, workspace.ID, user.ID, true, time.Now().Add(24*time.Hour))

	gateway := NewTokenGatewayService(log, r.reviewLink)

	scope, err := gateway.Resolve(context.Background(), link.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if scope.WorkspaceID != workspace.ID {
		t.Fatalf("workspace: want=%s got=%s", workspace.ID, scope.WorkspaceID)
	}
	if scope.ReviewLinkID != link.ID {
		t.Fatalf("link: want=%s got=%s", link.ID, scope.ReviewLinkID)
	}

	// Resolving again must still work; validation never consumes the token.
	if _, err := gateway.Resolve(context.Background(), link.Token); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
}

func TestTokenGatewayResolveUnknownToken(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)

	gateway := NewTokenGatewayService(log, r.reviewLink)

	_, err := gateway.Resolve(context.Background(), "no-such-token")
	if got := apierr.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d (err=%v)", got, err)
	}
}

func TestTokenGatewayResolveInactiveLink(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)
	link := seedReviewLink(t, r, workspace.ID, user.ID, false, time.Now().Add(24*time.Hour))

	gateway := NewTokenGatewayService(log, r.reviewLink)

	_, err := gateway.Resolve(context.Background(), link.Token)
	if got := apierr.StatusOf(err); got != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d (err=%v)", got, err)
	}
	if err.Error() != "review link is no longer active" {
		t.Fatalf("message: got %q", err.Error())
	}
}

func TestTokenGatewayResolveExpiredLink(t *testing.T) {
	log := mustTestLogger(t)
	db := mustTestDB(t)
	r := newTestRepos(db)
	user := seedUser(t, r)
	workspace := seedWorkspace(t, r, user.ID)
	link := seedReviewLink(t, r, workspace.ID, user.ID, true, time.Now().Add(-time.Hour))

	gateway := NewTokenGatewayService(log, r.reviewLink)

	_, err := gateway.Resolve(context.Background(), link.Token)
	if got := apierr.StatusOf(err); got != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d (err=%v)", got, err)
	}
	if err.Error() != "review link has expired" {
		t.Fatalf("message: got %q", err.Error())
	}
}

func TestGenerateTokenShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		token, err := generateToken()
		if err != nil {
			t.Fatalf("generateToken: %v", err)
		}
		// 32 bytes -> 43 chars of unpadded base64url.
		if len(token) != 43 {
			t.Fatalf("token length: want=43 got=%d", len(token))
		}
		if seen[token] {
			t.Fatalf("duplicate token generated")
		}
		seen[token] = true
	}
}

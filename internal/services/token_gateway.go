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
)

// LinkScope is the proof that a token resolved: every operation performed on
// behalf of an anonymous reviewer carries one, and is confined to its
// workspace.
type LinkScope struct {
	WorkspaceID  uuid.UUID
	ReviewLinkID uuid.UUID
	ExpiresAt    time.Time
}

// TokenGatewayService turns opaque review tokens into workspace scopes. It is
// the single authentication path for anonymous reviewers; it never consumes
// or rotates tokens.
type TokenGatewayService interface {
	Resolve(ctx context.Context, token string) (*LinkScope, error)
}

type tokenGatewayService struct {
	log            *logger.Logger
	reviewLinkRepo repos.ReviewLinkRepo
}

func NewTokenGatewayService(log *logger.Logger, reviewLinkRepo repos.ReviewLinkRepo) TokenGatewayService {
	return &tokenGatewayService{
		log:            log.With("service", "TokenGatewayService"),
		reviewLinkRepo: reviewLinkRepo,
	}
}

// Resolve distinguishes the three failure modes deliberately: a token that
// never existed is 404, one that was revoked or ran out is 401. Expiry is
// checked after the active flag so a revoked expired link reads as revoked.
func (s *tokenGatewayService) Resolve(ctx context.Context, token string) (*LinkScope, error) {
	link, err := s.reviewLinkRepo.GetByToken(ctx, nil, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("review link not found")
		}
		s.log.Error("Failed to look up review link", "error", err)
		return nil, err
	}
	if !link.IsActive {
		return nil, apierr.Unauthorized("review link is no longer active")
	}
	if time.Now().After(link.ExpiresAt) {
		return nil, apierr.Unauthorized("review link has expired")
	}
	return &LinkScope{WorkspaceID: link.WorkspaceID, ReviewLinkID: link.ID, ExpiresAt: link.ExpiresAt}, nil
}

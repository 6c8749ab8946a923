package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/realtime"
	"github.com/brandvault/brandvault-backend/internal/types"
)

// ReviewNotifier broadcasts review activity to a workspace's channel.
// Delivery is best effort: failures are logged, never returned, because a
// missed notification must not fail the write that triggered it.
type ReviewNotifier struct {
	log     *logger.Logger
	emitter EventEmitter
}

func NewReviewNotifier(log *logger.Logger, emitter EventEmitter) *ReviewNotifier {
	return &ReviewNotifier{
		log:     log.With("service", "ReviewNotifier"),
		emitter: emitter,
	}
}

func (n *ReviewNotifier) CommentCreated(ctx context.Context, workspaceID uuid.UUID, comment *types.Comment) {
	if n == nil || n.emitter == nil {
		return
	}
	msg := realtime.SSEMessage{
		Channel: realtime.WorkspaceChannel(workspaceID),
		Event:   realtime.SSEEventNewComment,
		Data:    comment,
	}
	if err := n.emitter.Emit(ctx, msg); err != nil {
		n.log.Warn("Failed to broadcast comment", "workspaceID", workspaceID, "error", err)
	}
}

func (n *ReviewNotifier) ApprovalRecorded(ctx context.Context, workspaceID uuid.UUID, action *types.ApprovalAction) {
	if n == nil || n.emitter == nil {
		return
	}
	msg := realtime.SSEMessage{
		Channel: realtime.WorkspaceChannel(workspaceID),
		Event:   realtime.SSEEventNewApproval,
		Data:    action,
	}
	if err := n.emitter.Emit(ctx, msg); err != nil {
		n.log.Warn("Failed to broadcast approval", "workspaceID", workspaceID, "error", err)
	}
}

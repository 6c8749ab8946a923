package realtime

import (
	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventNewComment  SSEEvent = "NewComment"
	SSEEventNewApproval SSEEvent = "NewApproval"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// WorkspaceChannel is the broadcast group for everyone viewing a workspace,
// agency users and anonymous link reviewers alike.
func WorkspaceChannel(workspaceID uuid.UUID) string {
	return "workspace_" + workspaceID.String()
}

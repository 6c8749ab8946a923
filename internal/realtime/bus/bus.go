package bus

import (
	"context"

	"github.com/brandvault/brandvault-backend/internal/realtime"
)

// Bus fans SSE messages out across server instances. A single-instance
// deployment can skip it and broadcast on the local hub directly.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

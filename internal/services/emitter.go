package services

import (
	"context"

	"github.com/brandvault/brandvault-backend/internal/realtime"
	"github.com/brandvault/brandvault-backend/internal/realtime/bus"
)

// EventEmitter is where review events leave the service layer. HubEmitter
// delivers to local SSE clients; RedisEmitter routes through the bus so every
// instance's hub sees the message.
type EventEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage) error
}

type HubEmitter struct {
	hub *realtime.SSEHub
}

func NewHubEmitter(hub *realtime.SSEHub) *HubEmitter {
	return &HubEmitter{hub: hub}
}

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) error {
	e.hub.Broadcast(msg)
	return nil
}

type RedisEmitter struct {
	bus bus.Bus
}

func NewRedisEmitter(b bus.Bus) *RedisEmitter {
	return &RedisEmitter{bus: b}
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) error {
	return e.bus.Publish(ctx, msg)
}

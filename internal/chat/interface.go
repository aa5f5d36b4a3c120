package chat

import (
	"context"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

// Coordinator drives the connection lifecycle: join, send, typing, leave,
// and abrupt disconnect. Implementations must never let a persistence
// failure block or fail a broadcast, and must stay available to other
// connections whatever a single operation does.
type Coordinator interface {
	HandleJoin(ctx context.Context, connID string, req domain.JoinRequest) error
	HandleSend(ctx context.Context, req domain.SendRequest) error
	HandleTyping(ctx context.Context, ev domain.TypingEvent) error
	HandleLeave(ctx context.Context, connID string, req domain.LeaveRequest) error
	HandleDisconnect(ctx context.Context, connID string) error
}

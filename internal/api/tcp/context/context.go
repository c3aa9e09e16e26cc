package context

import (
	"context"

	"github.com/google/uuid"
)

type connIDKey struct{}

// Manager stores the connection id in a request context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetConnIDToContext returns a copy of ctx carrying connID.
func (m *Manager) SetConnIDToContext(ctx context.Context, connID uuid.UUID) context.Context {
	return context.WithValue(ctx, connIDKey{}, connID)
}

// GetConnIDFromContext returns the connection id stored in ctx, if any.
func (m *Manager) GetConnIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	connID, ok := ctx.Value(connIDKey{}).(uuid.UUID)
	if !ok || connID == uuid.Nil {
		return uuid.Nil, false
	}

	return connID, true
}

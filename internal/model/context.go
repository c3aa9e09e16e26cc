package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager carries the connection identifier through request contexts.
type ContextManager interface {
	SetConnIDToContext(ctx context.Context, connID uuid.UUID) context.Context
	GetConnIDFromContext(ctx context.Context) (uuid.UUID, bool)
}

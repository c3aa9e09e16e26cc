package middleware

import (
	"context"
	"time"

	"github.com/dtroode/qaforum-server/internal/api/tcp/protocol"
	"github.com/dtroode/qaforum-server/internal/api/tcp/session"
	"github.com/dtroode/qaforum-server/internal/logger"
	"github.com/dtroode/qaforum-server/internal/model"
)

// HandlerFunc serves one request for one connection.
type HandlerFunc func(ctx context.Context, state *session.State, req protocol.Request) protocol.Response

// Logging logs every command with its duration and status.
// Arguments are never logged since they may carry passwords.
type Logging struct {
	logger         *logger.Logger
	contextManager model.ContextManager
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger, contextManager model.ContextManager) *Logging {
	return &Logging{logger: logger, contextManager: contextManager}
}

// Wrap returns next decorated with request logging.
func (l *Logging) Wrap(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, state *session.State, req protocol.Request) protocol.Response {
		start := time.Now()

		connID := "unknown"
		if id, ok := l.contextManager.GetConnIDFromContext(ctx); ok {
			connID = id.String()
		}

		l.logger.Debug("TCP request started",
			"command", req.Command,
			"conn_id", connID,
			"start_time", start.Format(time.RFC3339))

		resp := next(ctx, state, req)

		duration := time.Since(start)

		l.logger.Info("TCP request completed",
			"command", req.Command,
			"conn_id", connID,
			"duration_ms", duration.Milliseconds(),
			"status", string(resp.Status))

		if resp.Status == protocol.StatusErr {
			l.logger.Debug("TCP request rejected",
				"command", req.Command,
				"conn_id", connID,
				"reason", resp.Payload)
		}

		return resp
	}
}

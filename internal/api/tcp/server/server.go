package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/qaforum-server/internal/api/tcp/middleware"
	"github.com/dtroode/qaforum-server/internal/api/tcp/protocol"
	"github.com/dtroode/qaforum-server/internal/api/tcp/session"
	"github.com/dtroode/qaforum-server/internal/logger"
	"github.com/dtroode/qaforum-server/internal/model"
)

var _ model.Server = (*TCPServer)(nil)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// TCPServer accepts forum connections and serves each one in its own goroutine.
type TCPServer struct {
	handler        middleware.HandlerFunc
	addr           string
	maxMessageSize int
	contextManager model.ContextManager
	logger         *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	conns  sync.Map // uuid.UUID -> net.Conn

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewTCPServer creates a TCPServer with given handler and address.
func NewTCPServer(
	handler middleware.HandlerFunc,
	addr string,
	maxMessageSize int,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *TCPServer {
	ctx, cancel := context.WithCancel(context.Background())

	return &TCPServer{
		handler:        handler,
		addr:           addr,
		maxMessageSize: maxMessageSize,
		contextManager: contextManager,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start listens using the provided security layer and serves until Stop is called.
// It returns nil after a graceful stop.
func (s *TCPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("TCP server: listening", "address", listener.Addr().String())

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("listener closed: %w", err)
			}

			delay = min(max(2*delay, minAcceptDelay), maxAcceptDelay)
			s.logger.Error("TCP server: accept failed",
				"error", err.Error(),
				"retry_in", delay.String())

			select {
			case <-s.ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}

		delay = 0
		s.serve(conn)
	}
}

func (s *TCPServer) serve(conn net.Conn) {
	connID := uuid.New()
	s.conns.Store(connID, conn)

	if s.ctx.Err() != nil {
		s.conns.Delete(connID)
		conn.Close()
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.conns.Delete(connID)
		defer conn.Close()

		ctx := s.contextManager.SetConnIDToContext(s.ctx, connID)
		s.handleConn(ctx, connID, conn)
	}()
}

// handleConn reads one request per read call until the peer goes away. Bytes
// returned together with a read error are still answered.
func (s *TCPServer) handleConn(ctx context.Context, connID uuid.UUID, conn net.Conn) {
	log := s.logger.With("conn_id", connID.String(), "remote", conn.RemoteAddr().String())

	log.Info("TCP server: client connected")
	defer log.Info("TCP server: client disconnected")

	state := session.New()
	buf := make([]byte, s.maxMessageSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			resp := s.handler(ctx, state, protocol.Parse(buf[:n]))

			if _, werr := conn.Write(resp.Encode()); werr != nil {
				log.Debug("TCP server: write failed", "error", werr.Error())
				return
			}
		}

		if err != nil || ctx.Err() != nil {
			return
		}
	}
}

// Stop closes the listener and every open connection, then waits for
// connection goroutines to finish or for ctx to expire.
func (s *TCPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	s.cancel()

	if listener != nil {
		listener.Close()
	}

	s.conns.Range(func(_, value any) bool {
		value.(net.Conn).Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("TCP server: stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to drain connections: %w", ctx.Err())
	}
}

// Address returns the bound address once listening, the configured one before.
func (s *TCPServer) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

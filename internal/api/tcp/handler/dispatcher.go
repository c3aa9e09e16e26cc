package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/dtroode/qaforum-server/internal/api/tcp/protocol"
	"github.com/dtroode/qaforum-server/internal/api/tcp/session"
	"github.com/dtroode/qaforum-server/internal/logger"
	"github.com/dtroode/qaforum-server/internal/model"
)

// Options tunes response shaping and access rules.
type Options struct {
	MaxMessageSize   int
	LeaderboardSize  int
	ListRequiresAuth bool
}

type commandFunc func(ctx context.Context, state *session.State, args []string) protocol.Response

type command struct {
	arity        int
	requiresAuth bool
	handle       commandFunc
}

// Dispatcher routes decoded requests to the user and question stores.
// It keeps no state of its own; per-connection state lives in session.State.
type Dispatcher struct {
	users     model.UserStore
	questions model.QuestionStore
	opts      Options
	logger    *logger.Logger
	commands  map[string]command
}

func NewDispatcher(users model.UserStore, questions model.QuestionStore, opts Options, logger *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		users:     users,
		questions: questions,
		opts:      opts,
		logger:    logger,
	}

	d.commands = map[string]command{
		protocol.CommandRegister: {arity: 2, handle: d.register},
		protocol.CommandLogin:    {arity: 2, handle: d.login},
		protocol.CommandLogout:   {arity: 0, handle: d.logout},
		protocol.CommandPost:     {arity: 1, requiresAuth: true, handle: d.post},
		protocol.CommandAnswer:   {arity: 2, requiresAuth: true, handle: d.answer},
		protocol.CommandList:     {arity: 0, requiresAuth: opts.ListRequiresAuth, handle: d.list},
		protocol.CommandSearch:   {arity: 1, requiresAuth: true, handle: d.search},
		protocol.CommandRate:     {arity: 3, requiresAuth: true, handle: d.rate},
		protocol.CommandLeader:   {arity: 0, handle: d.leader},
	}

	return d
}

// Dispatch executes one request against the connection's session state.
func (d *Dispatcher) Dispatch(ctx context.Context, state *session.State, req protocol.Request) protocol.Response {
	cmd, ok := d.commands[req.Command]
	if !ok || len(req.Args) != cmd.arity {
		return handleError(req.Command, model.ErrUnknownCommand)
	}

	if cmd.requiresAuth {
		if _, err := d.currentUser(ctx, state); err != nil {
			return handleError(req.Command, err)
		}
	}

	return cmd.handle(ctx, state, req.Args)
}

// currentUser re-resolves the session's username against the user store.
func (d *Dispatcher) currentUser(ctx context.Context, state *session.State) (string, error) {
	username, ok := state.Username()
	if !ok {
		return "", model.ErrNotAuthenticated
	}

	if _, found := d.users.FindByUsername(ctx, username); !found {
		state.Logout()
		return "", model.ErrNotAuthenticated
	}

	return username, nil
}

func validUsername(s string) bool {
	return s != "" && len(s) <= model.MaxUsernameLength && !strings.Contains(s, protocol.ListSeparator)
}

func validText(s string) bool {
	return s != "" && len(s) <= model.MaxTextLength && !strings.Contains(s, protocol.ListSeparator)
}

// parseInt accepts only values that fit the stored 32-bit fields.
func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, model.ErrMalformedRequest
	}
	return int(n), nil
}

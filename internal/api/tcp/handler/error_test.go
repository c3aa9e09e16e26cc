package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/qaforum-server/internal/api/tcp/protocol"
	"github.com/dtroode/qaforum-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		in      error
		wantMsg string
	}{
		{"duplicate user", protocol.CommandRegister, model.ErrDuplicateUser, "Username exists"},
		{"user limit", protocol.CommandRegister, model.ErrCapacityExceeded, "User limit reached"},
		{"login unknown user", protocol.CommandLogin, model.ErrUserNotFound, "User not found"},
		{"login wrong password", protocol.CommandLogin, model.ErrWrongPassword, "Invalid password"},
		{"question limit", protocol.CommandPost, model.ErrCapacityExceeded, "Question limit reached"},
		{"answer bad index", protocol.CommandAnswer, model.ErrQuestionNotFound, "Invalid question index"},
		{"answer limit", protocol.CommandAnswer, model.ErrCapacityExceeded, "Answer limit reached"},
		{"rate bad question", protocol.CommandRate, model.ErrQuestionNotFound, "Invalid indices"},
		{"rate bad answer", protocol.CommandRate, model.ErrAnswerNotFound, "Invalid indices"},
		{"rate not author", protocol.CommandRate, model.ErrNotAuthor, "Not the question author"},
		{"rate author gone", protocol.CommandRate, model.ErrUserNotFound, "Answer author not found"},
		{"search miss", protocol.CommandSearch, model.ErrQuestionNotFound, "Question not found"},
		{"unauthenticated", protocol.CommandPost, model.ErrNotAuthenticated, "Not authenticated"},
		{"unknown command", "FOO", model.ErrUnknownCommand, "Unknown command"},
		{"malformed", protocol.CommandAnswer, model.ErrMalformedRequest, "Malformed request"},
		{"wrapped sentinel", protocol.CommandAnswer, fmt.Errorf("store: %w", model.ErrCapacityExceeded), "Answer limit reached"},
		{"other -> internal", protocol.CommandPost, errors.New("disk full"), "Internal error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := handleError(tt.command, tt.in)
			assert.Equal(t, protocol.StatusErr, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Payload)
		})
	}
}

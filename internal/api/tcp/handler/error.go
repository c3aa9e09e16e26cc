package handler

import (
	"errors"

	"github.com/dtroode/qaforum-server/internal/api/tcp/protocol"
	"github.com/dtroode/qaforum-server/internal/model"
)

const internalError = "Internal error"

// commandErrors holds messages that depend on the command that failed.
var commandErrors = map[string][]struct {
	err     error
	message string
}{
	protocol.CommandRegister: {
		{model.ErrDuplicateUser, "Username exists"},
		{model.ErrCapacityExceeded, "User limit reached"},
	},
	protocol.CommandPost: {
		{model.ErrCapacityExceeded, "Question limit reached"},
	},
	protocol.CommandAnswer: {
		{model.ErrQuestionNotFound, "Invalid question index"},
		{model.ErrCapacityExceeded, "Answer limit reached"},
	},
	protocol.CommandRate: {
		{model.ErrQuestionNotFound, "Invalid indices"},
		{model.ErrAnswerNotFound, "Invalid indices"},
		{model.ErrUserNotFound, "Answer author not found"},
	},
}

func handleError(command string, err error) protocol.Response {
	for _, e := range commandErrors[command] {
		if errors.Is(err, e.err) {
			return protocol.Error(e.message)
		}
	}

	switch {
	case errors.Is(err, model.ErrUnknownCommand):
		return protocol.Error("Unknown command")
	case errors.Is(err, model.ErrMalformedRequest):
		return protocol.Error("Malformed request")
	case errors.Is(err, model.ErrNotAuthenticated):
		return protocol.Error("Not authenticated")
	case errors.Is(err, model.ErrUserNotFound):
		return protocol.Error("User not found")
	case errors.Is(err, model.ErrWrongPassword):
		return protocol.Error("Invalid password")
	case errors.Is(err, model.ErrNotAuthor):
		return protocol.Error("Not the question author")
	case errors.Is(err, model.ErrQuestionNotFound):
		return protocol.Error("Question not found")
	default:
		return protocol.Error(internalError)
	}
}

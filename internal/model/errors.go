package model

import "errors"

var (
	ErrDuplicateUser    = errors.New("duplicate user")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrNotAuthor        = errors.New("not the question author")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrMalformedRequest = errors.New("malformed request")
	ErrUnknownCommand   = errors.New("unknown command")

	// ErrNotFound is returned by persisters when nothing has been stored yet.
	ErrNotFound = errors.New("not found")
)

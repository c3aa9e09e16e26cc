package model

import (
	"context"
	"io"
)

// Persister stores the user and question collections. Every Save call
// replaces the previously stored collection as a whole.
type Persister interface {
	SaveUsers(ctx context.Context, users []User) error
	SaveQuestions(ctx context.Context, questions []Question) error
	LoadUsers(ctx context.Context) ([]User, error)
	LoadQuestions(ctx context.Context) ([]Question, error)
}

// Storage is a key/value blob store.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}

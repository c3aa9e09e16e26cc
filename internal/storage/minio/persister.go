package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dtroode/qaforum-server/internal/codec"
	"github.com/dtroode/qaforum-server/internal/model"
)

// Object keys, matching the file names of the file backend.
const (
	UsersObject     = "users.dat"
	QuestionsObject = "questions.dat"
)

var _ model.Persister = (*Persister)(nil)

// Persister keeps encoded snapshots of both collections in a model.Storage.
type Persister struct {
	storage     model.Storage
	answerSlots int
}

func NewPersister(storage model.Storage, answerSlots int) *Persister {
	return &Persister{storage: storage, answerSlots: answerSlots}
}

func (p *Persister) SaveUsers(ctx context.Context, users []model.User) error {
	var buf bytes.Buffer
	if err := codec.EncodeUsers(&buf, users); err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	if err := p.storage.Upload(ctx, UsersObject, &buf); err != nil {
		return fmt.Errorf("failed to store users: %w", err)
	}

	return nil
}

func (p *Persister) SaveQuestions(ctx context.Context, questions []model.Question) error {
	var buf bytes.Buffer
	if err := codec.EncodeQuestions(&buf, questions, p.answerSlots); err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	if err := p.storage.Upload(ctx, QuestionsObject, &buf); err != nil {
		return fmt.Errorf("failed to store questions: %w", err)
	}

	return nil
}

func (p *Persister) LoadUsers(ctx context.Context) ([]model.User, error) {
	rc, err := p.open(ctx, UsersObject)
	if err != nil || rc == nil {
		return nil, err
	}
	defer rc.Close()

	users, err := codec.DecodeUsers(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (p *Persister) LoadQuestions(ctx context.Context) ([]model.Question, error) {
	rc, err := p.open(ctx, QuestionsObject)
	if err != nil || rc == nil {
		return nil, err
	}
	defer rc.Close()

	questions, err := codec.DecodeQuestions(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}

	return questions, nil
}

// open returns a nil reader when the object has never been written.
func (p *Persister) open(ctx context.Context, key string) (io.ReadCloser, error) {
	exists, err := p.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", key, err)
	}
	if !exists {
		return nil, nil
	}

	rc, err := p.storage.Download(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	return rc, nil
}

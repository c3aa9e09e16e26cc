package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dtroode/qaforum-server/internal/codec"
	"github.com/dtroode/qaforum-server/internal/model"
)

const (
	UsersFileName     = "users.dat"
	QuestionsFileName = "questions.dat"
)

var _ model.Persister = (*Persister)(nil)

// Persister keeps the two collections as flat record files in a directory.
// Each save rewrites the whole file through a temp file and a rename.
type Persister struct {
	dir         string
	answerSlots int
}

func NewPersister(dir string, answerSlots int) (*Persister, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	return &Persister{
		dir:         dir,
		answerSlots: answerSlots,
	}, nil
}

func (p *Persister) SaveUsers(_ context.Context, users []model.User) error {
	var buf bytes.Buffer
	if err := codec.EncodeUsers(&buf, users); err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	return p.replace(UsersFileName, buf.Bytes())
}

func (p *Persister) SaveQuestions(_ context.Context, questions []model.Question) error {
	var buf bytes.Buffer
	if err := codec.EncodeQuestions(&buf, questions, p.answerSlots); err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	return p.replace(QuestionsFileName, buf.Bytes())
}

func (p *Persister) LoadUsers(_ context.Context) ([]model.User, error) {
	var users []model.User
	err := p.read(UsersFileName, func(r io.Reader) (err error) {
		users, err = codec.DecodeUsers(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	return users, nil
}

func (p *Persister) LoadQuestions(_ context.Context) ([]model.Question, error) {
	var questions []model.Question
	err := p.read(QuestionsFileName, func(r io.Reader) (err error) {
		questions, err = codec.DecodeQuestions(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	return questions, nil
}

// read opens name and passes it to decode. A missing file is an empty collection.
func (p *Persister) read(name string, decode func(io.Reader) error) error {
	f, err := os.Open(filepath.Join(p.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	return decode(f)
}

func (p *Persister) replace(name string, data []byte) error {
	tmp, err := os.CreateTemp(p.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(p.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	return nil
}

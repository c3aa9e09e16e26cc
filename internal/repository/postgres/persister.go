package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dtroode/qaforum-server/internal/model"
)

var _ model.Persister = (*Persister)(nil)

// Persister mirrors both collections into tables. Each Save replaces the
// table contents inside one transaction, so readers see either the old or
// the new collection.
type Persister struct {
	db *sql.DB
}

func NewPersister(db *sql.DB) *Persister {
	return &Persister{db: db}
}

func (p *Persister) SaveUsers(ctx context.Context, users []model.User) error {
	return p.replace(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO users (position, username, password_hash, credits, is_manager, score)
			 VALUES ($1, $2, $3, $4, $5, $6)`)
		if err != nil {
			return fmt.Errorf("failed to prepare user insert: %w", err)
		}
		defer stmt.Close()

		for i, u := range users {
			if _, err := stmt.ExecContext(ctx, i, u.Username, u.PasswordHash, u.Credits, u.IsManager, u.Score); err != nil {
				return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
			}
		}

		return nil
	})
}

func (p *Persister) SaveQuestions(ctx context.Context, questions []model.Question) error {
	return p.replace(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers`); err != nil {
			return fmt.Errorf("failed to clear answers: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
			return fmt.Errorf("failed to clear questions: %w", err)
		}

		qStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO questions (position, text, author) VALUES ($1, $2, $3)`)
		if err != nil {
			return fmt.Errorf("failed to prepare question insert: %w", err)
		}
		defer qStmt.Close()

		aStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO answers (question_position, position, text, author, rating)
			 VALUES ($1, $2, $3, $4, $5)`)
		if err != nil {
			return fmt.Errorf("failed to prepare answer insert: %w", err)
		}
		defer aStmt.Close()

		for qi, q := range questions {
			if _, err := qStmt.ExecContext(ctx, qi, q.Text, q.Author); err != nil {
				return fmt.Errorf("failed to insert question %d: %w", qi, err)
			}
			for ai, a := range q.Answers {
				if _, err := aStmt.ExecContext(ctx, qi, ai, a.Text, a.Author, a.Rating); err != nil {
					return fmt.Errorf("failed to insert answer %d/%d: %w", qi, ai, err)
				}
			}
		}

		return nil
	})
}

func (p *Persister) LoadUsers(ctx context.Context) ([]model.User, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT username, password_hash, credits, is_manager, score FROM users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Credits, &u.IsManager, &u.Score); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

func (p *Persister) LoadQuestions(ctx context.Context) ([]model.Question, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT text, author FROM questions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q := model.Question{Answers: []model.Answer{}}
		if err := rows.Scan(&q.Text, &q.Author); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	if err := p.loadAnswers(ctx, questions); err != nil {
		return nil, err
	}

	return questions, nil
}

func (p *Persister) loadAnswers(ctx context.Context, questions []model.Question) error {
	rows, err := p.db.QueryContext(ctx,
		`SELECT question_position, text, author, rating FROM answers ORDER BY question_position, position`)
	if err != nil {
		return fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			qi int
			a  model.Answer
		)
		if err := rows.Scan(&qi, &a.Text, &a.Author, &a.Rating); err != nil {
			return fmt.Errorf("failed to scan answer: %w", err)
		}
		if qi < 0 || qi >= len(questions) {
			return fmt.Errorf("answer references missing question %d", qi)
		}
		questions[qi].Answers = append(questions[qi].Answers, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read answers: %w", err)
	}

	return nil
}

func (p *Persister) replace(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

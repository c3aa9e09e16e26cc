package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dtroode/qaforum-server/internal/logger"
	"github.com/dtroode/qaforum-server/internal/model"
)

var _ model.QuestionStore = (*Questions)(nil)

// UserLedger is the part of the user store that question operations update.
type UserLedger interface {
	AdjustCredits(ctx context.Context, username string, delta int) error
	AdjustScore(ctx context.Context, username string, delta int) error
	FindByUsername(ctx context.Context, username string) (model.User, bool)
}

// Questions owns the question collection.
//
// Lock order: q.mu is always taken before the user store's lock. Operations
// that touch both (Post, Answer, Rate) call into the ledger while holding q.mu,
// never the other way round.
type Questions struct {
	mu           sync.Mutex
	questions    []model.Question
	maxQuestions int
	maxAnswers   int
	users        UserLedger
	persister    model.Persister
	logger       *logger.Logger
}

func NewQuestions(users UserLedger, persister model.Persister, maxQuestions, maxAnswers int, logger *logger.Logger) *Questions {
	return &Questions{
		maxQuestions: maxQuestions,
		maxAnswers:   maxAnswers,
		users:        users,
		persister:    persister,
		logger:       logger,
	}
}

// Load replaces the in-memory collection with the persisted one.
func (q *Questions) Load(ctx context.Context) error {
	questions, err := q.persister.LoadQuestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.questions = questions
	q.logger.Info("Questions service: collection loaded", "count", len(questions))

	return nil
}

func (q *Questions) Post(ctx context.Context, author, text string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.questions) >= q.maxQuestions {
		q.logger.Info("Questions service: question limit reached", "limit", q.maxQuestions)
		return 0, model.ErrCapacityExceeded
	}

	index := len(q.questions)
	q.questions = append(q.questions, model.Question{
		Text:    text,
		Author:  author,
		Answers: []model.Answer{},
	})

	if err := q.users.AdjustCredits(ctx, author, model.PostReward); err != nil {
		q.questions = q.questions[:index]
		return 0, fmt.Errorf("failed to credit author: %w", err)
	}

	if err := q.save(ctx); err != nil {
		q.questions = q.questions[:index]
		q.refund(ctx, author, -model.PostReward)
		return 0, err
	}

	q.logger.Info("Questions service: question posted",
		"index", index,
		"author", author)

	return index, nil
}

func (q *Questions) Answer(ctx context.Context, index int, author, text string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.questions) {
		return 0, model.ErrQuestionNotFound
	}

	question := &q.questions[index]
	if len(question.Answers) >= q.maxAnswers {
		q.logger.Info("Questions service: answer limit reached",
			"index", index,
			"limit", q.maxAnswers)
		return 0, model.ErrCapacityExceeded
	}

	answerIndex := len(question.Answers)
	question.Answers = append(question.Answers, model.Answer{
		Text:   text,
		Author: author,
	})

	if err := q.users.AdjustCredits(ctx, author, model.AnswerReward); err != nil {
		question.Answers = question.Answers[:answerIndex]
		return 0, fmt.Errorf("failed to credit author: %w", err)
	}

	if err := q.save(ctx); err != nil {
		question.Answers = question.Answers[:answerIndex]
		q.refund(ctx, author, -model.AnswerReward)
		return 0, err
	}

	q.logger.Info("Questions service: answer added",
		"index", index,
		"answer_index", answerIndex,
		"author", author)

	return answerIndex, nil
}

// Rate overwrites the answer's rating and adds score to the answer author's
// cumulative score. Repeated calls keep adding.
func (q *Questions) Rate(ctx context.Context, questionIndex, answerIndex int, rater string, score int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if questionIndex < 0 || questionIndex >= len(q.questions) {
		return model.ErrQuestionNotFound
	}

	question := &q.questions[questionIndex]
	if answerIndex < 0 || answerIndex >= len(question.Answers) {
		return model.ErrAnswerNotFound
	}

	if question.Author != rater {
		q.logger.Info("Questions service: rating refused",
			"index", questionIndex,
			"rater", rater)
		return model.ErrNotAuthor
	}

	answer := &question.Answers[answerIndex]
	if _, ok := q.users.FindByUsername(ctx, answer.Author); !ok {
		return model.ErrUserNotFound
	}

	previous := answer.Rating
	answer.Rating = score

	if err := q.users.AdjustScore(ctx, answer.Author, score); err != nil {
		answer.Rating = previous
		return fmt.Errorf("failed to update score: %w", err)
	}

	if err := q.save(ctx); err != nil {
		answer.Rating = previous
		if rerr := q.users.AdjustScore(ctx, answer.Author, -score); rerr != nil {
			q.logger.Error("Questions service: failed to revert score",
				"username", answer.Author,
				"error", rerr.Error())
		}
		return err
	}

	q.logger.Info("Questions service: answer rated",
		"index", questionIndex,
		"answer_index", answerIndex,
		"score", score)

	return nil
}

func (q *Questions) List(_ context.Context) []model.QuestionSummary {
	q.mu.Lock()
	defer q.mu.Unlock()

	summaries := make([]model.QuestionSummary, 0, len(q.questions))
	for i, question := range q.questions {
		summaries = append(summaries, model.QuestionSummary{
			Index:       i,
			Text:        question.Text,
			Author:      question.Author,
			AnswerCount: len(question.Answers),
		})
	}

	return summaries
}

// Search returns the first question whose text contains keyword, ignoring case.
func (q *Questions) Search(_ context.Context, keyword string) (model.SearchResult, error) {
	needle := strings.ToLower(keyword)

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, question := range q.questions {
		if !strings.Contains(strings.ToLower(question.Text), needle) {
			continue
		}

		answers := make([]string, 0, len(question.Answers))
		for _, a := range question.Answers {
			answers = append(answers, a.Text)
		}

		return model.SearchResult{Question: question.Text, Answers: answers}, nil
	}

	return model.SearchResult{}, model.ErrQuestionNotFound
}

func (q *Questions) save(ctx context.Context) error {
	if err := q.persister.SaveQuestions(ctx, q.questions); err != nil {
		q.logger.Error("Questions service: failed to persist questions",
			"error", err.Error())
		return fmt.Errorf("failed to save questions: %w", err)
	}
	return nil
}

// refund reverses a credit reward after a failed question write.
func (q *Questions) refund(ctx context.Context, username string, delta int) {
	if err := q.users.AdjustCredits(ctx, username, delta); err != nil {
		q.logger.Error("Questions service: failed to revert credits",
			"username", username,
			"error", err.Error())
	}
}

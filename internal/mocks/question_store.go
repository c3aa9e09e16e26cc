package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/qaforum-server/internal/model"
)

// QuestionStore is a mock of model.QuestionStore.
type QuestionStore struct {
	mock.Mock
}

func (_m *QuestionStore) Post(ctx context.Context, author, text string) (int, error) {
	ret := _m.Called(ctx, author, text)
	return ret.Int(0), ret.Error(1)
}

func (_m *QuestionStore) Answer(ctx context.Context, index int, author, text string) (int, error) {
	ret := _m.Called(ctx, index, author, text)
	return ret.Int(0), ret.Error(1)
}

func (_m *QuestionStore) Rate(ctx context.Context, questionIndex, answerIndex int, rater string, score int) error {
	ret := _m.Called(ctx, questionIndex, answerIndex, rater, score)
	return ret.Error(0)
}

func (_m *QuestionStore) List(ctx context.Context) []model.QuestionSummary {
	ret := _m.Called(ctx)

	var r0 []model.QuestionSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.QuestionSummary)
	}
	return r0
}

func (_m *QuestionStore) Search(ctx context.Context, keyword string) (model.SearchResult, error) {
	ret := _m.Called(ctx, keyword)
	return ret.Get(0).(model.SearchResult), ret.Error(1)
}

// NewQuestionStore creates a QuestionStore mock that asserts its expectations on cleanup.
func NewQuestionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *QuestionStore {
	m := &QuestionStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

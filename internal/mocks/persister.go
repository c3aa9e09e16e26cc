package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/qaforum-server/internal/model"
)

// Persister is a mock of model.Persister.
type Persister struct {
	mock.Mock
}

func (_m *Persister) SaveUsers(ctx context.Context, users []model.User) error {
	ret := _m.Called(ctx, users)

	if rf, ok := ret.Get(0).(func(context.Context, []model.User) error); ok {
		return rf(ctx, users)
	}
	return ret.Error(0)
}

func (_m *Persister) SaveQuestions(ctx context.Context, questions []model.Question) error {
	ret := _m.Called(ctx, questions)

	if rf, ok := ret.Get(0).(func(context.Context, []model.Question) error); ok {
		return rf(ctx, questions)
	}
	return ret.Error(0)
}

func (_m *Persister) LoadUsers(ctx context.Context) ([]model.User, error) {
	ret := _m.Called(ctx)

	var r0 []model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.User)
	}
	return r0, ret.Error(1)
}

func (_m *Persister) LoadQuestions(ctx context.Context) ([]model.Question, error) {
	ret := _m.Called(ctx)

	var r0 []model.Question
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Question)
	}
	return r0, ret.Error(1)
}

// NewPersister creates a Persister mock that asserts its expectations on cleanup.
func NewPersister(t interface {
	mock.TestingT
	Cleanup(func())
}) *Persister {
	m := &Persister{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

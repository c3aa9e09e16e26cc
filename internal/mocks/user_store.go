package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/qaforum-server/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) Register(ctx context.Context, username, password string) error {
	ret := _m.Called(ctx, username, password)
	return ret.Error(0)
}

func (_m *UserStore) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	ret := _m.Called(ctx, username, password)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) FindByUsername(ctx context.Context, username string) (model.User, bool) {
	ret := _m.Called(ctx, username)
	return ret.Get(0).(model.User), ret.Bool(1)
}

func (_m *UserStore) TopByScore(ctx context.Context, n int) []model.LeaderEntry {
	ret := _m.Called(ctx, n)

	var r0 []model.LeaderEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.LeaderEntry)
	}
	return r0
}

// NewUserStore creates a UserStore mock that asserts its expectations on cleanup.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

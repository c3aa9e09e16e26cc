package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ContextManager is a mock of model.ContextManager.
type ContextManager struct {
	mock.Mock
}

func (_m *ContextManager) SetConnIDToContext(ctx context.Context, connID uuid.UUID) context.Context {
	ret := _m.Called(ctx, connID)
	return ret.Get(0).(context.Context)
}

func (_m *ContextManager) GetConnIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ret := _m.Called(ctx)
	return ret.Get(0).(uuid.UUID), ret.Bool(1)
}

// NewContextManager creates a ContextManager mock that asserts its expectations on cleanup.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

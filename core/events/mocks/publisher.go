package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Publisher is a mock implementation of events.Publisher.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, payload any) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *Publisher) Close() {
	m.Called()
}

package mocks

import (
	"context"

	"pitchvault/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, actorID uuid.UUID, env domain.Envelope) error {
	args := m.Called(ctx, actorID, env)
	return args.Error(0)
}

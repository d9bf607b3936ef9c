package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationStateRepository struct {
	mock.Mock
}

func (m *NotificationStateRepository) MarkRead(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, actorID, ids)
	return args.Error(0)
}

func (m *NotificationStateRepository) MarkDeleted(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, actorID, ids)
	return args.Error(0)
}

func (m *NotificationStateRepository) ReadSet(ctx context.Context, actorID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]struct{}), args.Error(1)
}

func (m *NotificationStateRepository) DeletedSet(ctx context.Context, actorID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]struct{}), args.Error(1)
}

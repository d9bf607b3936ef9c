package mocks

import (
	"context"

	"pitchvault/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PitchRepository struct {
	mock.Mock
}

func (m *PitchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pitch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pitch), args.Error(1)
}

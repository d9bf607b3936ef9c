package mocks

import (
	"context"
	"time"

	"pitchvault/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AgreementRepository struct {
	mock.Mock
}

func (m *AgreementRepository) Create(ctx context.Context, a *domain.Agreement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AgreementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}

func (m *AgreementRepository) FindActiveForPair(ctx context.Context, requesterID, pitchID uuid.UUID) (*domain.Agreement, error) {
	args := m.Called(ctx, requesterID, pitchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}

func (m *AgreementRepository) ListForActor(ctx context.Context, actorID uuid.UUID) ([]domain.Agreement, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agreement), args.Error(1)
}

func (m *AgreementRepository) UpdateStatus(ctx context.Context, a *domain.Agreement, from domain.AgreementStatus) error {
	args := m.Called(ctx, a, from)
	return args.Error(0)
}

func (m *AgreementRepository) ListExpirable(ctx context.Context, now time.Time) ([]domain.Agreement, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agreement), args.Error(1)
}

func (m *AgreementRepository) ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]domain.Agreement, error) {
	args := m.Called(ctx, now, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agreement), args.Error(1)
}

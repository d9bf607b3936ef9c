package mocks

import (
	"context"

	"pitchvault/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ArchiveService struct {
	mock.Mock
}

func (m *ArchiveService) StoreSignatureReceipt(ctx context.Context, a *domain.Agreement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

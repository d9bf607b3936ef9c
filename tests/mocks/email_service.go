package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendRequestEmail(ctx context.Context, toEmail, ownerName, requesterName, pitchTitle string) error {
	args := m.Called(ctx, toEmail, ownerName, requesterName, pitchTitle)
	return args.Error(0)
}

func (m *EmailService) SendDecisionEmail(ctx context.Context, toEmail, requesterName, pitchTitle, status, detail string) error {
	args := m.Called(ctx, toEmail, requesterName, pitchTitle, status, detail)
	return args.Error(0)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgreementStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    AgreementStatus
		to      AgreementStatus
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusSigned, false},
		{StatusPending, StatusExpired, false},
		{StatusApproved, StatusSigned, true},
		{StatusApproved, StatusRevoked, true},
		{StatusApproved, StatusExpired, true},
		{StatusApproved, StatusPending, false},
		{StatusSigned, StatusRevoked, true},
		{StatusSigned, StatusExpired, true},
		{StatusSigned, StatusApproved, false},
		{StatusRejected, StatusPending, false},
		{StatusExpired, StatusApproved, false},
		{StatusRevoked, StatusSigned, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equalf(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestAgreementStatus_Terminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.True(t, StatusRevoked.IsTerminal())

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.False(t, StatusSigned.IsTerminal())

	assert.False(t, AgreementStatus("draft").IsTerminal())
	assert.False(t, AgreementStatus("draft").IsValid())
}

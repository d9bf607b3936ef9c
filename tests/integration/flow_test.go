//go:build integration
// +build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"pitchvault/internal/domain"
	"pitchvault/internal/repository"
	"pitchvault/internal/service/agreement"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, db *sqlx.DB, fullName string, class domain.RequesterClass) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.New(), FullName: fullName, Class: class}
	_, err := db.Exec(
		`INSERT INTO users (id, full_name, class) VALUES ($1, $2, $3)`,
		u.ID, u.FullName, u.Class,
	)
	require.NoError(t, err)
	return u
}

func seedPitch(t *testing.T, db *sqlx.DB, ownerID uuid.UUID, title string) *domain.Pitch {
	t.Helper()
	p := &domain.Pitch{ID: uuid.New(), OwnerID: ownerID, Title: title}
	_, err := db.Exec(
		`INSERT INTO pitches (id, owner_id, title) VALUES ($1, $2, $3)`,
		p.ID, p.OwnerID, p.Title,
	)
	require.NoError(t, err)
	return p
}

func TestAgreementLifecycle(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()

	ctx := context.Background()

	agreementRepo := repository.NewAgreementRepository(env.DB)
	pitchRepo := repository.NewPitchRepository(env.DB)
	userRepo := repository.NewUserRepository(env.DB)
	auditRepo := repository.NewAuditLogRepository(env.DB)

	svc := agreement.NewService(agreementRepo, pitchRepo, userRepo, auditRepo, nil, nil)

	owner := seedUser(t, env.DB, "Ava Stone", domain.ClassCreator)
	requester := seedUser(t, env.DB, "Ben Cole", domain.ClassInvestor)
	pitch := seedPitch(t, env.DB, owner.ID, "Ocean Heist")

	actor := &domain.Actor{ID: requester.ID, FullName: requester.FullName, Class: requester.Class}

	var agreementID uuid.UUID

	t.Run("Request", func(t *testing.T) {
		proposal := 60
		a, err := svc.Create(ctx, actor, domain.CreateAgreementInput{
			PitchID:    pitch.ID,
			Message:    "keen to read the full treatment",
			ExpiryDays: &proposal,
		})
		require.NoError(t, err)
		require.NotNil(t, a)

		assert.Equal(t, domain.StatusPending, a.Status)
		assert.False(t, a.RequestedAt.IsZero())
		require.NotNil(t, a.ProposedExpiryDays)
		assert.Equal(t, 60, *a.ProposedExpiryDays)
		agreementID = a.ID
	})

	t.Run("Duplicate Request Blocked By Index", func(t *testing.T) {
		_, err := svc.Create(ctx, actor, domain.CreateAgreementInput{PitchID: pitch.ID})
		assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	})

	t.Run("Own Pitch Blocked", func(t *testing.T) {
		ownerActor := &domain.Actor{ID: owner.ID, FullName: owner.FullName}
		_, err := svc.Create(ctx, ownerActor, domain.CreateAgreementInput{PitchID: pitch.ID})
		assert.ErrorIs(t, err, domain.ErrOwnResource)
	})

	t.Run("Approve", func(t *testing.T) {
		meta := &agreement.RequestMeta{IPAddress: "203.0.113.7", UserAgent: "integration-test"}
		a, err := svc.Approve(ctx, agreementID, owner.ID, domain.ApproveAgreementInput{ExpiryDays: 90}, meta)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusApproved, a.Status)
		require.NotNil(t, a.ExpiresAt)
	})

	t.Run("Stale Approve Is Invalid Transition", func(t *testing.T) {
		_, err := svc.Approve(ctx, agreementID, owner.ID, domain.ApproveAgreementInput{ExpiryDays: 90}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Sign", func(t *testing.T) {
		a, err := svc.Sign(ctx, agreementID, requester.ID, domain.SignAgreementInput{
			Signature:   "Ben Cole",
			FullName:    "Ben Cole",
			AcceptTerms: true,
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusSigned, a.Status)
		require.NotNil(t, a.SignedAt)
	})

	t.Run("Expire Before Due Date Refused", func(t *testing.T) {
		_, err := svc.Expire(ctx, agreementID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Expire After Due Date", func(t *testing.T) {
		_, err := env.DB.Exec(
			`UPDATE agreements SET expires_at = $2 WHERE id = $1`,
			agreementID, time.Now().Add(-time.Hour),
		)
		require.NoError(t, err)

		a, err := svc.Expire(ctx, agreementID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusExpired, a.Status)
	})

	t.Run("Expire Is Idempotent", func(t *testing.T) {
		a, err := svc.Expire(ctx, agreementID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusExpired, a.Status)
	})

	t.Run("Terminal Pair Can Request Again", func(t *testing.T) {
		eligibility, err := svc.CanRequest(ctx, requester.ID, pitch.ID)
		require.NoError(t, err)
		assert.True(t, eligibility.Allowed)
	})

	t.Run("Audit Trail Recorded", func(t *testing.T) {
		page, err := svc.AuditTrail(ctx, owner.ID, agreementID, domain.DefaultPagination())
		require.NoError(t, err)

		actions := make([]string, 0, len(page.Data))
		for _, entry := range page.Data {
			actions = append(actions, entry.Action)
		}
		assert.Contains(t, actions, "REQUEST_AGREEMENT")
		assert.Contains(t, actions, "APPROVE_AGREEMENT")
		assert.Contains(t, actions, "SIGN_AGREEMENT")
	})
}

func TestAgreementListing(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()

	ctx := context.Background()

	agreementRepo := repository.NewAgreementRepository(env.DB)
	pitchRepo := repository.NewPitchRepository(env.DB)
	userRepo := repository.NewUserRepository(env.DB)
	auditRepo := repository.NewAuditLogRepository(env.DB)

	svc := agreement.NewService(agreementRepo, pitchRepo, userRepo, auditRepo, nil, nil)

	owner := seedUser(t, env.DB, "Ava Stone", domain.ClassCreator)
	investor := seedUser(t, env.DB, "Ben Cole", domain.ClassInvestor)
	producer := seedUser(t, env.DB, "Cara Diaz", domain.ClassProduction)

	first := seedPitch(t, env.DB, owner.ID, "Ocean Heist")
	second := seedPitch(t, env.DB, owner.ID, "Desert Noir")

	for _, req := range []struct {
		actor *domain.User
		pitch *domain.Pitch
	}{
		{investor, first},
		{producer, second},
	} {
		actor := &domain.Actor{ID: req.actor.ID, FullName: req.actor.FullName, Class: req.actor.Class}
		_, err := svc.Create(ctx, actor, domain.CreateAgreementInput{PitchID: req.pitch.ID})
		require.NoError(t, err)
	}

	t.Run("Owner Sees Both Requests", func(t *testing.T) {
		page, err := svc.List(ctx, owner.ID, domain.AgreementQuery{}, domain.DefaultPagination())
		require.NoError(t, err)
		assert.Len(t, page.Data, 2)
	})

	t.Run("Search Narrows By Pitch Title", func(t *testing.T) {
		page, err := svc.List(ctx, owner.ID, domain.AgreementQuery{Search: "Desert"}, domain.DefaultPagination())
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "Desert Noir", page.Data[0].Pitch.Title)
	})

	t.Run("Requester Sees Only Their Own", func(t *testing.T) {
		page, err := svc.List(ctx, investor.ID, domain.AgreementQuery{}, domain.DefaultPagination())
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, investor.ID, page.Data[0].RequesterID)
	})
}

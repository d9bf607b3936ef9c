package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pitchvault/internal/domain"
)

type AgreementRepository interface {
	Create(ctx context.Context, a *domain.Agreement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agreement, error)
	FindActiveForPair(ctx context.Context, requesterID, pitchID uuid.UUID) (*domain.Agreement, error)
	ListForActor(ctx context.Context, actorID uuid.UUID) ([]domain.Agreement, error)
	UpdateStatus(ctx context.Context, a *domain.Agreement, from domain.AgreementStatus) error
	ListExpirable(ctx context.Context, now time.Time) ([]domain.Agreement, error)
	ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]domain.Agreement, error)
}

type agreementRepository struct {
	db *sqlx.DB
}

func NewAgreementRepository(db *sqlx.DB) AgreementRepository {
	return &agreementRepository{db: db}
}

// Create inserts a pending agreement. The agreements table carries a partial
// unique index on (requester_id, pitch_id) where status is non-terminal, so a
// lost check-then-act race still surfaces as ErrDuplicateRequest here.
func (r *agreementRepository) Create(ctx context.Context, a *domain.Agreement) error {
	query := `
		INSERT INTO agreements (id, pitch_id, owner_id, requester_id, status, template_id, request_message, proposed_expiry_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING requested_at`

	err := r.db.QueryRowxContext(ctx, query,
		a.ID, a.PitchID, a.OwnerID, a.RequesterID, a.Status, a.TemplateID, a.RequestMessage, a.ProposedExpiryDays,
	).Scan(&a.RequestedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicateRequest
	}
	return err
}

func (r *agreementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agreement, error) {
	var a domain.Agreement
	query := `SELECT * FROM agreements WHERE id = $1`
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAgreementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindActiveForPair returns the non-terminal agreement for the pair, or nil
// when none exists.
func (r *agreementRepository) FindActiveForPair(ctx context.Context, requesterID, pitchID uuid.UUID) (*domain.Agreement, error) {
	var a domain.Agreement
	query := `
		SELECT * FROM agreements
		WHERE requester_id = $1 AND pitch_id = $2
		  AND status IN ('pending', 'approved', 'signed')
		LIMIT 1`
	err := r.db.GetContext(ctx, &a, query, requesterID, pitchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *agreementRepository) ListForActor(ctx context.Context, actorID uuid.UUID) ([]domain.Agreement, error) {
	var agreements []domain.Agreement
	query := `
		SELECT * FROM agreements
		WHERE owner_id = $1 OR requester_id = $1
		ORDER BY requested_at DESC`
	err := r.db.SelectContext(ctx, &agreements, query, actorID)
	return agreements, err
}

// UpdateStatus persists a transition guarded by the expected source status.
// Zero rows affected means the row moved under us; the caller gets
// ErrInvalidTransition rather than a silent overwrite.
func (r *agreementRepository) UpdateStatus(ctx context.Context, a *domain.Agreement, from domain.AgreementStatus) error {
	query := `
		UPDATE agreements
		SET status = $3, review_notes = $4, rejection_reason = $5, custom_terms = $6,
		    signature_name = $7, responded_at = $8, expires_at = $9, revoked_at = $10, signed_at = $11
		WHERE id = $1 AND status = $2`

	res, err := r.db.ExecContext(ctx, query,
		a.ID, from, a.Status, a.ReviewNotes, a.RejectionReason, a.CustomTerms,
		a.SignatureName, a.RespondedAt, a.ExpiresAt, a.RevokedAt, a.SignedAt,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewInvalidTransition(from, a.Status)
	}
	return nil
}

func (r *agreementRepository) ListExpirable(ctx context.Context, now time.Time) ([]domain.Agreement, error) {
	var agreements []domain.Agreement
	query := `
		SELECT * FROM agreements
		WHERE status IN ('approved', 'signed') AND expires_at IS NOT NULL AND expires_at < $1`
	err := r.db.SelectContext(ctx, &agreements, query, now)
	return agreements, err
}

func (r *agreementRepository) ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]domain.Agreement, error) {
	var agreements []domain.Agreement
	query := `
		SELECT * FROM agreements
		WHERE status IN ('approved', 'signed') AND expires_at IS NOT NULL
		  AND expires_at >= $1 AND expires_at < $2`
	err := r.db.SelectContext(ctx, &agreements, query, now, now.Add(window))
	return agreements, err
}

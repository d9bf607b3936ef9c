package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pitchvault/internal/domain"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	ListByAgreement(ctx context.Context, agreementID uuid.UUID, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, agreement_id, old_value, new_value, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		log.ID, log.ActorID, log.Action, log.AgreementID,
		log.OldValue, log.NewValue, log.IPAddress, log.UserAgent,
	).Scan(&log.CreatedAt)
}

func (r *auditLogRepository) ListByAgreement(ctx context.Context, agreementID uuid.UUID, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM audit_logs WHERE agreement_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, agreementID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM audit_logs
		WHERE agreement_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var logs []domain.AuditLog
	err := r.db.SelectContext(ctx, &logs, query, agreementID, params.PageSize, params.Offset())
	return logs, total, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pitchvault/internal/domain"
)

type PitchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pitch, error)
}

type pitchRepository struct {
	db *sqlx.DB
}

func NewPitchRepository(db *sqlx.DB) PitchRepository {
	return &pitchRepository{db: db}
}

func (r *pitchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pitch, error) {
	var pitch domain.Pitch
	query := `SELECT * FROM pitches WHERE id = $1`
	err := r.db.GetContext(ctx, &pitch, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPitchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pitch, nil
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ActorID     uuid.UUID       `json:"actor_id" db:"actor_id"`
	Action      string          `json:"action" db:"action"`
	AgreementID uuid.UUID       `json:"agreement_id" db:"agreement_id"`
	OldValue    json.RawMessage `json:"old_value,omitempty" db:"old_value"`
	NewValue    json.RawMessage `json:"new_value,omitempty" db:"new_value"`
	IPAddress   *string         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent   *string         `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Pitch is the protected resource an agreement governs. The marketplace
// itself (browsing, media, analytics) lives elsewhere; the NDA subsystem only
// needs ownership and display fields.
type Pitch struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	LogLine   *string   `json:"log_line,omitempty" db:"log_line"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

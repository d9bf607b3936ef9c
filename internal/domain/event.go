package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the transport-level wrapper for real-time domain events. Data
// is left opaque here; the translator decides how to interpret it per Type.
type Envelope struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

const (
	EnvelopeStatusUpdate  = "status-update"
	EnvelopeExpiryWarning = "expiry-warning"
	EnvelopeReminder      = "reminder"
	EnvelopeMessage       = "message"
	EnvelopeViewUpdate    = "view-update"
)

// DedupKey returns the identifier used to suppress repeat deliveries: the
// envelope id when the publisher set one, otherwise data.id if present.
func (e Envelope) DedupKey() string {
	if e.ID != "" {
		return e.ID
	}
	var partial struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(e.Data, &partial); err == nil {
		return partial.ID
	}
	return ""
}

// StatusUpdateData is the payload of status-update envelopes published on
// every agreement transition.
type StatusUpdateData struct {
	ID            uuid.UUID  `json:"id"`
	Status        string     `json:"status"`
	PitchTitle    string     `json:"pitch_title,omitempty"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	RequesterID   uuid.UUID  `json:"requester_id"`
	RequesterName string     `json:"requester_name,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
}

type MessageData struct {
	ID         string     `json:"id"`
	SenderName string     `json:"sender_name,omitempty"`
	Preview    string     `json:"preview,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

type ViewUpdateData struct {
	ID         string     `json:"id"`
	PitchTitle string     `json:"pitch_title,omitempty"`
	ViewerName string     `json:"viewer_name,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

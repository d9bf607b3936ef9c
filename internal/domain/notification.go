package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	KindRequest  NotificationKind = "request"
	KindApproved NotificationKind = "approved"
	KindRejected NotificationKind = "rejected"
	KindExpiring NotificationKind = "expiring"
	KindExpired  NotificationKind = "expired"
	KindReminder NotificationKind = "reminder"
	KindMessage  NotificationKind = "message"
	KindView     NotificationKind = "view"
	KindGeneric  NotificationKind = "generic"
)

// Notification is a read projection over agreement/event state plus
// actor-local read/deleted flags. It is never a source of truth for
// agreement status.
type Notification struct {
	ID             uuid.UUID        `json:"id"`
	ActorID        uuid.UUID        `json:"actor_id"`
	Kind           NotificationKind `json:"kind"`
	Title          string           `json:"title"`
	Body           string           `json:"body"`
	Payload        json.RawMessage  `json:"payload,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
	IsRead         bool             `json:"is_read"`
	ActionRequired bool             `json:"action_required"`
	Urgent         bool             `json:"urgent"`
}

// notificationNamespace seeds deterministic notification ids. Fixed so the
// same source and kind always map to the same id across processes.
var notificationNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NotificationID derives a stable id from the composite key {source, kind},
// so one source record never produces colliding ids across kinds.
func NotificationID(sourceID string, kind NotificationKind) uuid.UUID {
	return uuid.NewSHA1(notificationNamespace, []byte(sourceID+":"+string(kind)))
}

type MarkNotificationsInput struct {
	IDs []uuid.UUID `json:"ids"`
}

package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pitchvault/internal/domain"
)

// urgentExpiryWindow flags a notification urgent when the underlying
// agreement expires within it. Deliberately independent of the pending-request
// urgency tiers.
const urgentExpiryWindow = 7 * 24 * time.Hour

// Translate maps a real-time envelope to a notification for the viewing
// actor. It is pure: no stores, no network, no clock reads beyond the passed
// now. Unknown envelope types return nil, skipped rather than erroring, since
// the stream legitimately carries event kinds this layer does not model.
func Translate(env domain.Envelope, viewerID uuid.UUID, now time.Time) *domain.Notification {
	switch env.Type {
	case domain.EnvelopeStatusUpdate:
		return translateStatusUpdate(env, viewerID, now)
	case domain.EnvelopeExpiryWarning:
		return translateExpiryWarning(env, viewerID, now)
	case domain.EnvelopeReminder:
		return translateMessage(env, viewerID, now, domain.KindReminder, "Reminder")
	case domain.EnvelopeMessage:
		return translateMessage(env, viewerID, now, domain.KindMessage, "New message")
	case domain.EnvelopeViewUpdate:
		return translateViewUpdate(env, viewerID, now)
	default:
		return nil
	}
}

func translateStatusUpdate(env domain.Envelope, viewerID uuid.UUID, now time.Time) *domain.Notification {
	var data domain.StatusUpdateData
	_ = json.Unmarshal(env.Data, &data)

	pitchTitle := data.PitchTitle
	if pitchTitle == "" {
		pitchTitle = "a pitch"
	}
	requesterName := data.RequesterName
	if requesterName == "" {
		requesterName = "Someone"
	}

	var kind domain.NotificationKind
	var title, body string
	switch data.Status {
	case "requested":
		kind = domain.KindRequest
		title = "New NDA request"
		body = fmt.Sprintf("%s requested access to %s", requesterName, pitchTitle)
	case "approved":
		kind = domain.KindApproved
		title = "NDA approved"
		body = fmt.Sprintf("Your request for %s was approved", pitchTitle)
	case "rejected":
		kind = domain.KindRejected
		title = "NDA rejected"
		body = fmt.Sprintf("Your request for %s was rejected", pitchTitle)
	case "expired":
		kind = domain.KindExpired
		title = "NDA expired"
		body = fmt.Sprintf("The agreement for %s has expired", pitchTitle)
	default:
		kind = domain.KindGeneric
		title = "Agreement update"
		body = fmt.Sprintf("The agreement for %s changed status", pitchTitle)
		if data.Status != "" {
			body = fmt.Sprintf("The agreement for %s is now %s", pitchTitle, data.Status)
		}
	}

	return &domain.Notification{
		ID:             notificationID(env, data.ID, kind),
		ActorID:        viewerID,
		Kind:           kind,
		Title:          title,
		Body:           body,
		Payload:        env.Data,
		OccurredAt:     occurredAt(data.OccurredAt, now),
		ActionRequired: kind == domain.KindRequest && viewerID == data.OwnerID,
		Urgent:         expiresSoon(data.ExpiresAt, now),
	}
}

func translateExpiryWarning(env domain.Envelope, viewerID uuid.UUID, now time.Time) *domain.Notification {
	var data domain.StatusUpdateData
	_ = json.Unmarshal(env.Data, &data)

	pitchTitle := data.PitchTitle
	if pitchTitle == "" {
		pitchTitle = "a pitch"
	}

	return &domain.Notification{
		ID:         notificationID(env, data.ID, domain.KindExpiring),
		ActorID:    viewerID,
		Kind:       domain.KindExpiring,
		Title:      "NDA expiring soon",
		Body:       fmt.Sprintf("The agreement for %s expires soon", pitchTitle),
		Payload:    env.Data,
		OccurredAt: occurredAt(data.OccurredAt, now),
		Urgent:     true,
	}
}

func translateMessage(env domain.Envelope, viewerID uuid.UUID, now time.Time, kind domain.NotificationKind, title string) *domain.Notification {
	var data domain.MessageData
	_ = json.Unmarshal(env.Data, &data)

	body := data.Preview
	if data.SenderName != "" {
		body = fmt.Sprintf("%s: %s", data.SenderName, data.Preview)
	}

	return &domain.Notification{
		ID:         stringSourceID(env, data.ID, kind),
		ActorID:    viewerID,
		Kind:       kind,
		Title:      title,
		Body:       body,
		Payload:    env.Data,
		OccurredAt: occurredAt(data.OccurredAt, now),
	}
}

func translateViewUpdate(env domain.Envelope, viewerID uuid.UUID, now time.Time) *domain.Notification {
	var data domain.ViewUpdateData
	_ = json.Unmarshal(env.Data, &data)

	pitchTitle := data.PitchTitle
	if pitchTitle == "" {
		pitchTitle = "your pitch"
	}
	viewerName := data.ViewerName
	if viewerName == "" {
		viewerName = "Someone"
	}

	return &domain.Notification{
		ID:         stringSourceID(env, data.ID, domain.KindView),
		ActorID:    viewerID,
		Kind:       domain.KindView,
		Title:      "Pitch viewed",
		Body:       fmt.Sprintf("%s viewed %s", viewerName, pitchTitle),
		Payload:    env.Data,
		OccurredAt: occurredAt(data.OccurredAt, now),
	}
}

// notificationID derives the composite-key id {source, kind}. When the
// payload carries no source id, the envelope id or raw payload stands in so
// the result stays deterministic for a given envelope.
func notificationID(env domain.Envelope, sourceID uuid.UUID, kind domain.NotificationKind) uuid.UUID {
	if sourceID != uuid.Nil {
		return domain.NotificationID(sourceID.String(), kind)
	}
	return stringSourceID(env, "", kind)
}

func stringSourceID(env domain.Envelope, sourceID string, kind domain.NotificationKind) uuid.UUID {
	if sourceID != "" {
		return domain.NotificationID(sourceID, kind)
	}
	if env.ID != "" {
		return domain.NotificationID(env.ID, kind)
	}
	return domain.NotificationID(string(env.Data), kind)
}

func occurredAt(t *time.Time, now time.Time) time.Time {
	if t != nil {
		return *t
	}
	return now
}

func expiresSoon(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && expiresAt.After(now) && expiresAt.Sub(now) <= urgentExpiryWindow
}

package notification

import "pitchvault/internal/domain"

// ApplyQuery filters a projected feed. The projection already orders
// newest-first; filtering never reorders. The input slice is never mutated.
func ApplyQuery(notifications []domain.Notification, q domain.NotificationQuery) []domain.Notification {
	q.Normalize()
	if q.Kind == "" && !q.UnreadOnly {
		return notifications
	}

	out := make([]domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		if q.Kind != "" && string(n.Kind) != q.Kind {
			continue
		}
		if q.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out
}

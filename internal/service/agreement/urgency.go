package agreement

import (
	"time"

	"pitchvault/internal/domain"
)

// ClassifyUrgency scores how overdue a pending request is. High-value
// requester classes (production, distributor, investor) escalate on a faster
// clock. Thresholds are strict: a request at exactly 72h is medium, not high.
func ClassifyUrgency(requestedAt time.Time, class domain.RequesterClass, now time.Time) domain.Urgency {
	h := now.Sub(requestedAt).Hours()
	highValue := class.IsHighValue()

	switch {
	case h > 72:
		return domain.UrgencyHigh
	case highValue && h > 24:
		return domain.UrgencyHigh
	case h > 48:
		return domain.UrgencyMedium
	case highValue && h > 12:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}

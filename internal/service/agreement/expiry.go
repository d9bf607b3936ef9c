package agreement

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pitchvault/internal/domain"
)

// RunExpirySweeper periodically expires overdue agreements and publishes
// expiry warnings for ones inside the warning window. Blocks until ctx is
// cancelled; run it on its own goroutine.
func (s *service) RunExpirySweeper(ctx context.Context, interval, warningWindow time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, warningWindow)
		}
	}
}

func (s *service) sweep(ctx context.Context, warningWindow time.Duration) {
	now := s.now()

	expirable, err := s.agreementRepo.ListExpirable(ctx, now)
	if err != nil {
		log.Printf("expiry sweep: list expirable: %v", err)
	}
	for _, a := range expirable {
		if _, err := s.Expire(ctx, a.ID); err != nil {
			log.Printf("expiry sweep: expire %s: %v", a.ID, err)
		}
	}

	expiring, err := s.agreementRepo.ListExpiringWithin(ctx, now, warningWindow)
	if err != nil {
		log.Printf("expiry sweep: list expiring: %v", err)
		return
	}
	for _, a := range expiring {
		s.publishExpiryWarning(ctx, &a, now)
	}
}

// publishExpiryWarning keys the envelope by agreement and calendar day so the
// downstream deduplicator collapses repeat sweeps into one warning per day.
func (s *service) publishExpiryWarning(ctx context.Context, a *domain.Agreement, now time.Time) {
	if s.publisher == nil {
		return
	}

	data, err := json.Marshal(domain.StatusUpdateData{
		ID:          a.ID,
		Status:      string(a.Status),
		PitchTitle:  s.pitchTitle(ctx, a.PitchID),
		OwnerID:     a.OwnerID,
		RequesterID: a.RequesterID,
		ExpiresAt:   a.ExpiresAt,
		OccurredAt:  &now,
	})
	if err != nil {
		return
	}

	env := domain.Envelope{
		Type: domain.EnvelopeExpiryWarning,
		ID:   fmt.Sprintf("expiring:%s:%s", a.ID, now.Format("2006-01-02")),
		Data: data,
	}

	for _, recipient := range []uuid.UUID{a.OwnerID, a.RequesterID} {
		if err := s.publisher.Publish(ctx, recipient, env); err != nil {
			log.Printf("expiry sweep: publish warning for %s: %v", a.ID, err)
		}
	}
}

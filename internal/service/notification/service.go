package notification

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"pitchvault/internal/domain"
	"pitchvault/internal/repository"
)

type Service interface {
	List(ctx context.Context, actorID uuid.UUID, query domain.NotificationQuery, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error
	Delete(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error
	Annotate(ctx context.Context, actorID uuid.UUID, n *domain.Notification) (bool, error)
}

type service struct {
	agreementRepo repository.AgreementRepository
	userRepo      repository.UserRepository
	pitchRepo     repository.PitchRepository
	stateRepo     repository.NotificationStateRepository
	warningWindow time.Duration
	now           func() time.Time
}

func NewService(
	agreementRepo repository.AgreementRepository,
	userRepo repository.UserRepository,
	pitchRepo repository.PitchRepository,
	stateRepo repository.NotificationStateRepository,
	warningWindow time.Duration,
) Service {
	return &service{
		agreementRepo: agreementRepo,
		userRepo:      userRepo,
		pitchRepo:     pitchRepo,
		stateRepo:     stateRepo,
		warningWindow: warningWindow,
		now:           time.Now,
	}
}

// List projects the actor's agreements into notifications, merges the
// persisted read/deleted sets, then filters and pages the result newest-first.
func (s *service) List(ctx context.Context, actorID uuid.UUID, query domain.NotificationQuery, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, err := s.project(ctx, actorID)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	filtered := ApplyQuery(notifications, query)

	params.Validate()
	total := int64(len(filtered))
	start := params.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return domain.NewPaginatedResponse(filtered[start:end], params.Page, params.PageSize, total), nil
}

// UnreadCount is the server-known side of the reconciled counter: derived
// fresh from source data on every call, never stored.
func (s *service) UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	notifications, err := s.project(ctx, actorID)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	return s.stateRepo.MarkRead(ctx, actorID, ids)
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	return s.stateRepo.MarkDeleted(ctx, actorID, ids)
}

// Annotate attaches the persisted viewing flags to a freshly translated
// notification. Returns false when the actor has deleted it.
func (s *service) Annotate(ctx context.Context, actorID uuid.UUID, n *domain.Notification) (bool, error) {
	deleted, err := s.stateRepo.DeletedSet(ctx, actorID)
	if err != nil {
		return false, err
	}
	if _, gone := deleted[n.ID]; gone {
		return false, nil
	}

	read, err := s.stateRepo.ReadSet(ctx, actorID)
	if err != nil {
		return false, err
	}
	_, n.IsRead = read[n.ID]
	return true, nil
}

// project rebuilds the actor's notification feed from agreement state. The
// feed is a pure read projection; agreement status stays the single source of
// truth and the translator stays the single source of templates.
func (s *service) project(ctx context.Context, actorID uuid.UUID) ([]domain.Notification, error) {
	agreements, err := s.agreementRepo.ListForActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	read, err := s.stateRepo.ReadSet(ctx, actorID)
	if err != nil {
		return nil, err
	}
	deleted, err := s.stateRepo.DeletedSet(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var notifications []domain.Notification
	for i := range agreements {
		for _, env := range s.envelopesFor(ctx, &agreements[i], actorID, now) {
			n := Translate(env, actorID, now)
			if n == nil {
				continue
			}
			if _, gone := deleted[n.ID]; gone {
				continue
			}
			_, n.IsRead = read[n.ID]
			notifications = append(notifications, *n)
		}
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].OccurredAt.After(notifications[j].OccurredAt)
	})

	return notifications, nil
}

// envelopesFor synthesizes the envelopes an agreement's current state implies
// for one viewer. Owners see inbound requests and signatures; requesters see
// decisions; both see expiry warnings while an active agreement is inside the
// warning window.
func (s *service) envelopesFor(ctx context.Context, a *domain.Agreement, viewerID uuid.UUID, now time.Time) []domain.Envelope {
	var statuses []string
	var occurred []time.Time

	isOwner := a.OwnerID == viewerID

	switch a.Status {
	case domain.StatusPending:
		if isOwner {
			statuses = append(statuses, "requested")
			occurred = append(occurred, a.RequestedAt)
		}
	case domain.StatusApproved:
		if !isOwner && a.RespondedAt != nil {
			statuses = append(statuses, "approved")
			occurred = append(occurred, *a.RespondedAt)
		}
	case domain.StatusRejected:
		if !isOwner && a.RespondedAt != nil {
			statuses = append(statuses, "rejected")
			occurred = append(occurred, *a.RespondedAt)
		}
	case domain.StatusSigned:
		if isOwner && a.SignedAt != nil {
			statuses = append(statuses, "signed")
			occurred = append(occurred, *a.SignedAt)
		}
	case domain.StatusRevoked:
		if !isOwner && a.RevokedAt != nil {
			statuses = append(statuses, "revoked")
			occurred = append(occurred, *a.RevokedAt)
		}
	case domain.StatusExpired:
		if a.ExpiresAt != nil {
			statuses = append(statuses, "expired")
			occurred = append(occurred, *a.ExpiresAt)
		}
	}

	envelopes := make([]domain.Envelope, 0, 2)
	for i, status := range statuses {
		envelopes = append(envelopes, s.statusEnvelope(ctx, a, status, occurred[i]))
	}

	active := a.Status == domain.StatusApproved || a.Status == domain.StatusSigned
	if active && a.ExpiresAt != nil && a.ExpiresAt.After(now) && a.ExpiresAt.Sub(now) <= s.warningWindow {
		env := s.statusEnvelope(ctx, a, string(a.Status), now)
		env.Type = domain.EnvelopeExpiryWarning
		envelopes = append(envelopes, env)
	}

	return envelopes
}

func (s *service) statusEnvelope(ctx context.Context, a *domain.Agreement, status string, occurredAt time.Time) domain.Envelope {
	data := domain.StatusUpdateData{
		ID:          a.ID,
		Status:      status,
		OwnerID:     a.OwnerID,
		RequesterID: a.RequesterID,
		ExpiresAt:   a.ExpiresAt,
		OccurredAt:  &occurredAt,
	}
	if pitch, err := s.pitchRepo.GetByID(ctx, a.PitchID); err == nil {
		data.PitchTitle = pitch.Title
	}
	if requester, err := s.userRepo.GetByID(ctx, a.RequesterID); err == nil {
		data.RequesterName = requester.FullName
	}

	payload, _ := json.Marshal(data)
	return domain.Envelope{Type: domain.EnvelopeStatusUpdate, Data: payload}
}

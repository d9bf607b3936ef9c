package agreement

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"pitchvault/internal/domain"
	"pitchvault/internal/repository"
	"pitchvault/internal/service/archive"
	"pitchvault/internal/service/email"
)

// EventPublisher pushes a domain event onto an actor's real-time channel.
// Implemented by the stream package; injected to avoid an import cycle.
type EventPublisher interface {
	Publish(ctx context.Context, actorID uuid.UUID, env domain.Envelope) error
}

type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type Service interface {
	Create(ctx context.Context, actor *domain.Actor, input domain.CreateAgreementInput) (*domain.Agreement, error)
	GetByID(ctx context.Context, actorID, id uuid.UUID) (*domain.Agreement, error)
	CanRequest(ctx context.Context, actorID, pitchID uuid.UUID) (*domain.Eligibility, error)
	List(ctx context.Context, actorID uuid.UUID, query domain.AgreementQuery, params domain.PaginationParams) (domain.PaginatedResponse[domain.Agreement], error)
	Approve(ctx context.Context, id, actorID uuid.UUID, input domain.ApproveAgreementInput, meta *RequestMeta) (*domain.Agreement, error)
	Reject(ctx context.Context, id, actorID uuid.UUID, input domain.RejectAgreementInput, meta *RequestMeta) (*domain.Agreement, error)
	Revoke(ctx context.Context, id, actorID uuid.UUID, input domain.RevokeAgreementInput, meta *RequestMeta) (*domain.Agreement, error)
	Sign(ctx context.Context, id, actorID uuid.UUID, input domain.SignAgreementInput, meta *RequestMeta) (*domain.Agreement, error)
	Expire(ctx context.Context, id uuid.UUID) (*domain.Agreement, error)
	BulkApprove(ctx context.Context, actorID uuid.UUID, input domain.BulkApproveInput) (*domain.BulkResult, error)
	BulkReject(ctx context.Context, actorID uuid.UUID, input domain.BulkRejectInput) (*domain.BulkResult, error)
	AuditTrail(ctx context.Context, actorID, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
	RunExpirySweeper(ctx context.Context, interval, warningWindow time.Duration)
	SetPublisher(pub EventPublisher)
}

type service struct {
	agreementRepo repository.AgreementRepository
	pitchRepo     repository.PitchRepository
	userRepo      repository.UserRepository
	auditRepo     repository.AuditLogRepository
	emailSvc      email.Service
	archiveSvc    archive.Service
	publisher     EventPublisher
	now           func() time.Time
}

func NewService(
	agreementRepo repository.AgreementRepository,
	pitchRepo repository.PitchRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	emailSvc email.Service,
	archiveSvc archive.Service,
) Service {
	return &service{
		agreementRepo: agreementRepo,
		pitchRepo:     pitchRepo,
		userRepo:      userRepo,
		auditRepo:     auditRepo,
		emailSvc:      emailSvc,
		archiveSvc:    archiveSvc,
		now:           time.Now,
	}
}

func (s *service) SetPublisher(pub EventPublisher) {
	s.publisher = pub
}

// CanRequest runs the eligibility rules in order, first match wins. It is an
// optimization only; the partial unique index in the agreements table is the
// authoritative guarantee against a check-then-create race.
func (s *service) CanRequest(ctx context.Context, actorID, pitchID uuid.UUID) (*domain.Eligibility, error) {
	pitch, err := s.pitchRepo.GetByID(ctx, pitchID)
	if err != nil {
		return nil, err
	}

	existing, err := s.agreementRepo.FindActiveForPair(ctx, actorID, pitchID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &domain.Eligibility{Allowed: false, Reason: domain.ReasonAlreadyRequested, Existing: existing}, nil
	}

	if pitch.OwnerID == actorID {
		return &domain.Eligibility{Allowed: false, Reason: domain.ReasonOwnResource}, nil
	}

	return &domain.Eligibility{Allowed: true}, nil
}

func (s *service) Create(ctx context.Context, actor *domain.Actor, input domain.CreateAgreementInput) (*domain.Agreement, error) {
	pitch, err := s.pitchRepo.GetByID(ctx, input.PitchID)
	if err != nil {
		return nil, err
	}

	// Re-evaluated immediately before creation, never cached.
	eligibility, err := s.CanRequest(ctx, actor.ID, input.PitchID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Allowed {
		if eligibility.Reason == domain.ReasonOwnResource {
			return nil, domain.ErrOwnResource
		}
		return nil, domain.ErrDuplicateRequest
	}

	a := &domain.Agreement{
		ID:          uuid.New(),
		PitchID:     pitch.ID,
		OwnerID:     pitch.OwnerID,
		RequesterID: actor.ID,
		Status:      domain.StatusPending,
		TemplateID:  input.TemplateID,
	}
	if msg := strings.TrimSpace(input.Message); msg != "" {
		a.RequestMessage = &msg
	}
	if input.ExpiryDays != nil && *input.ExpiryDays > 0 {
		a.ProposedExpiryDays = input.ExpiryDays
	}

	if err := s.agreementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logAudit(ctx, actor.ID, "REQUEST_AGREEMENT", a, "", nil)
	s.publishStatus(a, "requested", pitch.Title, actor.FullName, a.OwnerID)

	if s.emailSvc != nil {
		go func(pitchTitle, requesterName string, ownerID uuid.UUID) {
			ctx := context.Background()
			owner, err := s.userRepo.GetByID(ctx, ownerID)
			if err != nil || owner.Email == "" {
				return
			}
			_ = s.emailSvc.SendRequestEmail(ctx, owner.Email, owner.FullName, requesterName, pitchTitle)
		}(pitch.Title, actor.FullName, a.OwnerID)
	}

	return s.decorate(ctx, a), nil
}

func (s *service) GetByID(ctx context.Context, actorID, id uuid.UUID) (*domain.Agreement, error) {
	a, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != actorID && a.RequesterID != actorID {
		return nil, domain.ErrForbidden
	}
	return s.decorate(ctx, a), nil
}

func (s *service) Approve(ctx context.Context, id, actorID uuid.UUID, input domain.ApproveAgreementInput, meta *RequestMeta) (*domain.Agreement, error) {
	a, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if a.Status != domain.StatusPending {
		return nil, domain.NewInvalidTransition(a.Status, domain.StatusApproved)
	}
	if input.ExpiryDays <= 0 {
		return nil, domain.NewValidationError("expiry_days must be positive")
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(input.ExpiryDays) * 24 * time.Hour)

	prev := a.Status
	a.Status = domain.StatusApproved
	a.RespondedAt = &now
	a.ExpiresAt = &expiresAt
	a.ReviewNotes = input.Notes
	a.CustomTerms = input.CustomTerms

	if err := s.agreementRepo.UpdateStatus(ctx, a, prev); err != nil {
		return nil, err
	}

	s.logAudit(ctx, actorID, "APPROVE_AGREEMENT", a, prev, meta)
	s.notifyDecision(ctx, a, "approved", nil)

	return s.decorate(ctx, a), nil
}

func (s *service) Reject(ctx context.Context, id, actorID uuid.UUID, input domain.RejectAgreementInput, meta *RequestMeta) (*domain.Agreement, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("rejection reason is required")
	}

	a, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if a.Status != domain.StatusPending {
		return nil, domain.NewInvalidTransition(a.Status, domain.StatusRejected)
	}

	now := s.now()
	prev := a.Status
	a.Status = domain.StatusRejected
	a.RespondedAt = &now
	a.RejectionReason = &reason

	if err := s.agreementRepo.UpdateStatus(ctx, a, prev); err != nil {
		return nil, err
	}

	s.logAudit(ctx, actorID, "REJECT_AGREEMENT", a, prev, meta)
	s.notifyDecision(ctx, a, "rejected", &reason)

	return s.decorate(ctx, a), nil
}

func (s *service) Revoke(ctx context.Context, id, actorID uuid.UUID, input domain.RevokeAgreementInput, meta *RequestMeta) (*domain.Agreement, error) {
	a, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if !a.Status.CanTransitionTo(domain.StatusRevoked) {
		return nil, domain.NewInvalidTransition(a.Status, domain.StatusRevoked)
	}

	now := s.now()
	prev := a.Status
	a.Status = domain.StatusRevoked
	a.RevokedAt = &now
	if input.Reason != nil && strings.TrimSpace(*input.Reason) != "" {
		a.ReviewNotes = input.Reason
	}

	if err := s.agreementRepo.UpdateStatus(ctx, a, prev); err != nil {
		return nil, err
	}

	s.logAudit(ctx, actorID, "REVOKE_AGREEMENT", a, prev, meta)
	s.notifyDecision(ctx, a, "revoked", input.Reason)

	return s.decorate(ctx, a), nil
}

func (s *service) Sign(ctx context.Context, id, actorID uuid.UUID, input domain.SignAgreementInput, meta *RequestMeta) (*domain.Agreement, error) {
	if !input.AcceptTerms {
		return nil, domain.NewValidationError("terms must be accepted before signing")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" || strings.TrimSpace(input.Signature) == "" {
		return nil, domain.NewValidationError("signature and full name are required")
	}

	a, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.RequesterID != actorID {
		return nil, domain.ErrForbidden
	}
	if a.Status != domain.StatusApproved {
		return nil, domain.NewInvalidTransition(a.Status, domain.StatusSigned)
	}

	now := s.now()
	prev := a.Status
	a.Status = domain.StatusSigned
	a.SignedAt = &now
	a.SignatureName = &fullName

	if err := s.agreementRepo.UpdateStatus(ctx, a, prev); err != nil {
		return nil, err
	}

	s.logAudit(ctx, actorID, "SIGN_AGREEMENT", a, prev, meta)

	pitchTitle := s.pitchTitle(ctx, a.PitchID)
	s.publishStatus(a, "signed", pitchTitle, s.requesterName(ctx, a.RequesterID), a.OwnerID)

	if s.archiveSvc != nil {
		archived := *a
		go func() {
			_ = s.archiveSvc.StoreSignatureReceipt(context.Background(), &archived)
		}()
	}

	return s.decorate(ctx, a), nil
}

// Expire is system-invoked by the sweeper, never by an actor. Repeated calls
// on an already-terminal agreement are no-ops.
func (s *service) Expire(ctx context.Context, id uuid.UUID) (*domain.Agreement, error) {
	a, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status.IsTerminal() {
		return a, nil
	}
	if !a.Status.CanTransitionTo(domain.StatusExpired) {
		return nil, domain.NewInvalidTransition(a.Status, domain.StatusExpired)
	}
	if a.ExpiresAt == nil || !s.now().After(*a.ExpiresAt) {
		return nil, domain.NewInvalidTransition(a.Status, domain.StatusExpired)
	}

	prev := a.Status
	a.Status = domain.StatusExpired

	if err := s.agreementRepo.UpdateStatus(ctx, a, prev); err != nil {
		return nil, err
	}

	pitchTitle := s.pitchTitle(ctx, a.PitchID)
	s.publishStatus(a, "expired", pitchTitle, "", a.OwnerID, a.RequesterID)

	return a, nil
}

func (s *service) List(ctx context.Context, actorID uuid.UUID, query domain.AgreementQuery, params domain.PaginationParams) (domain.PaginatedResponse[domain.Agreement], error) {
	agreements, err := s.agreementRepo.ListForActor(ctx, actorID)
	if err != nil {
		return domain.PaginatedResponse[domain.Agreement]{}, err
	}

	users := make(map[uuid.UUID]*domain.User)
	pitches := make(map[uuid.UUID]*domain.Pitch)
	for i := range agreements {
		a := &agreements[i]
		if _, ok := users[a.RequesterID]; !ok {
			users[a.RequesterID], _ = s.userRepo.GetByID(ctx, a.RequesterID)
		}
		if _, ok := pitches[a.PitchID]; !ok {
			pitches[a.PitchID], _ = s.pitchRepo.GetByID(ctx, a.PitchID)
		}
		a.Requester = users[a.RequesterID]
		a.Pitch = pitches[a.PitchID]
		s.derive(a)
	}

	filtered := ApplyQuery(agreements, query)

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

func (s *service) AuditTrail(ctx context.Context, actorID, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	a, err := s.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	if a.OwnerID != actorID && a.RequesterID != actorID {
		return domain.PaginatedResponse[domain.AuditLog]{}, domain.ErrForbidden
	}

	logs, total, err := s.auditRepo.ListByAgreement(ctx, id, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}

// derive recomputes the read-only fields. Urgency is a function of wall-clock
// time and requester class, so it is never persisted.
func (s *service) derive(a *domain.Agreement) {
	a.HasCustomTerms = a.CustomTerms != nil && *a.CustomTerms != ""

	a.Urgency = domain.UrgencyLow
	if a.Status == domain.StatusPending {
		class := domain.RequesterClass("")
		if a.Requester != nil {
			class = a.Requester.Class
		}
		a.Urgency = ClassifyUrgency(a.RequestedAt, class, s.now())
	}
}

func (s *service) decorate(ctx context.Context, a *domain.Agreement) *domain.Agreement {
	if a.Requester == nil {
		a.Requester, _ = s.userRepo.GetByID(ctx, a.RequesterID)
	}
	if a.Pitch == nil {
		a.Pitch, _ = s.pitchRepo.GetByID(ctx, a.PitchID)
	}
	s.derive(a)
	return a
}

func (s *service) pitchTitle(ctx context.Context, pitchID uuid.UUID) string {
	pitch, err := s.pitchRepo.GetByID(ctx, pitchID)
	if err != nil {
		return ""
	}
	return pitch.Title
}

func (s *service) requesterName(ctx context.Context, requesterID uuid.UUID) string {
	user, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return ""
	}
	return user.FullName
}

// notifyDecision fans a decision out to the requester: real-time event plus
// best-effort email. Both are fire-and-forget; a decision never fails because
// a side channel did.
func (s *service) notifyDecision(ctx context.Context, a *domain.Agreement, status string, note *string) {
	pitchTitle := s.pitchTitle(ctx, a.PitchID)
	s.publishStatus(a, status, pitchTitle, "", a.RequesterID)

	if s.emailSvc == nil {
		return
	}
	go func(requesterID uuid.UUID, pitchTitle, status string, note *string) {
		ctx := context.Background()
		requester, err := s.userRepo.GetByID(ctx, requesterID)
		if err != nil || requester.Email == "" {
			return
		}
		detail := ""
		if note != nil {
			detail = *note
		}
		_ = s.emailSvc.SendDecisionEmail(ctx, requester.Email, requester.FullName, pitchTitle, status, detail)
	}(a.RequesterID, pitchTitle, status, note)
}

func (s *service) publishStatus(a *domain.Agreement, status, pitchTitle, requesterName string, recipients ...uuid.UUID) {
	if s.publisher == nil {
		return
	}

	occurredAt := s.now()
	data, err := json.Marshal(domain.StatusUpdateData{
		ID:            a.ID,
		Status:        status,
		PitchTitle:    pitchTitle,
		OwnerID:       a.OwnerID,
		RequesterID:   a.RequesterID,
		RequesterName: requesterName,
		ExpiresAt:     a.ExpiresAt,
		OccurredAt:    &occurredAt,
	})
	if err != nil {
		return
	}

	env := domain.Envelope{
		Type: domain.EnvelopeStatusUpdate,
		ID:   uuid.New().String(),
		Data: data,
	}

	for _, recipient := range recipients {
		go func(recipient uuid.UUID) {
			_ = s.publisher.Publish(context.Background(), recipient, env)
		}(recipient)
	}
}

func (s *service) logAudit(ctx context.Context, actorID uuid.UUID, action string, a *domain.Agreement, prev domain.AgreementStatus, meta *RequestMeta) {
	log := &domain.AuditLog{
		ID:          uuid.New(),
		ActorID:     actorID,
		Action:      action,
		AgreementID: a.ID,
		NewValue:    json.RawMessage(`{"status":"` + string(a.Status) + `"}`),
	}
	if prev != "" {
		log.OldValue = json.RawMessage(`{"status":"` + string(prev) + `"}`)
	}
	if meta != nil {
		if meta.IPAddress != "" {
			log.IPAddress = &meta.IPAddress
		}
		if meta.UserAgent != "" {
			log.UserAgent = &meta.UserAgent
		}
	}

	_ = s.auditRepo.Create(ctx, log)
}

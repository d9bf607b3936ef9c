package domain

import (
	"time"

	"github.com/google/uuid"
)

type AgreementStatus string

const (
	StatusPending  AgreementStatus = "pending"
	StatusApproved AgreementStatus = "approved"
	StatusRejected AgreementStatus = "rejected"
	StatusExpired  AgreementStatus = "expired"
	StatusRevoked  AgreementStatus = "revoked"
	StatusSigned   AgreementStatus = "signed"
)

// statusGraph is the canonical lifecycle. Rejected, expired and revoked are
// terminal markers; agreements are never physically deleted.
var statusGraph = map[AgreementStatus][]AgreementStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusSigned, StatusRevoked, StatusExpired},
	StatusSigned:   {StatusRevoked, StatusExpired},
	StatusRejected: {},
	StatusExpired:  {},
	StatusRevoked:  {},
}

func (s AgreementStatus) IsValid() bool {
	_, ok := statusGraph[s]
	return ok
}

func (s AgreementStatus) IsTerminal() bool {
	next, ok := statusGraph[s]
	return ok && len(next) == 0
}

func (s AgreementStatus) CanTransitionTo(to AgreementStatus) bool {
	for _, allowed := range statusGraph[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Rank orders urgencies high > medium > low for sorting.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	}
	return 0
}

type RequesterClass string

const (
	ClassCreator     RequesterClass = "creator"
	ClassInvestor    RequesterClass = "investor"
	ClassProduction  RequesterClass = "production"
	ClassDistributor RequesterClass = "distributor"
)

// IsHighValue reports whether the class gets accelerated urgency treatment.
func (c RequesterClass) IsHighValue() bool {
	switch c {
	case ClassProduction, ClassDistributor, ClassInvestor:
		return true
	}
	return false
}

type Agreement struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	PitchID         uuid.UUID       `json:"pitch_id" db:"pitch_id"`
	OwnerID         uuid.UUID       `json:"owner_id" db:"owner_id"`
	RequesterID     uuid.UUID       `json:"requester_id" db:"requester_id"`
	Status          AgreementStatus `json:"status" db:"status"`
	TemplateID      *uuid.UUID      `json:"template_id,omitempty" db:"template_id"`
	RequestMessage  *string         `json:"request_message,omitempty" db:"request_message"`
	ReviewNotes     *string         `json:"review_notes,omitempty" db:"review_notes"`
	RejectionReason *string         `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CustomTerms     *string         `json:"custom_terms,omitempty" db:"custom_terms"`
	SignatureName   *string         `json:"signature_name,omitempty" db:"signature_name"`
	RequestedAt     time.Time       `json:"requested_at" db:"requested_at"`
	RespondedAt     *time.Time      `json:"responded_at,omitempty" db:"responded_at"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
	RevokedAt       *time.Time      `json:"revoked_at,omitempty" db:"revoked_at"`
	SignedAt        *time.Time      `json:"signed_at,omitempty" db:"signed_at"`

	// ProposedExpiryDays is the requester's suggested term. Advisory only;
	// the owner's approve input decides the actual expiry.
	ProposedExpiryDays *int `json:"proposed_expiry_days,omitempty" db:"proposed_expiry_days"`

	// Derived on read, never persisted.
	Urgency        Urgency `json:"urgency" db:"-"`
	HasCustomTerms bool    `json:"has_custom_terms" db:"-"`

	Requester *User  `json:"requester,omitempty" db:"-"`
	Pitch     *Pitch `json:"pitch,omitempty" db:"-"`
}

type CreateAgreementInput struct {
	PitchID    uuid.UUID  `json:"pitch_id" validate:"required"`
	Message    string     `json:"message,omitempty"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	ExpiryDays *int       `json:"expiry_days,omitempty"`
}

type ApproveAgreementInput struct {
	Notes       *string `json:"notes,omitempty"`
	CustomTerms *string `json:"custom_terms,omitempty"`
	ExpiryDays  int     `json:"expiry_days"`
}

type RejectAgreementInput struct {
	Reason string `json:"reason"`
}

type RevokeAgreementInput struct {
	Reason *string `json:"reason,omitempty"`
}

type SignAgreementInput struct {
	Signature   string `json:"signature"`
	FullName    string `json:"full_name"`
	AcceptTerms bool   `json:"accept_terms"`
}

type BulkApproveInput struct {
	IDs []uuid.UUID `json:"ids"`
}

type BulkRejectInput struct {
	IDs    []uuid.UUID `json:"ids"`
	Reason string      `json:"reason"`
}

type BulkFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BulkResult accounts for every input id exactly once, either in Successful
// or in Failed.
type BulkResult struct {
	Successful []uuid.UUID   `json:"successful"`
	Failed     []BulkFailure `json:"failed"`
}

// Eligibility is the outcome of the can-request precondition check.
type Eligibility struct {
	Allowed  bool       `json:"allowed"`
	Reason   string     `json:"reason,omitempty"`
	Existing *Agreement `json:"existing,omitempty"`
}

const (
	ReasonAlreadyRequested = "already requested"
	ReasonOwnResource      = "cannot request own resource"
)

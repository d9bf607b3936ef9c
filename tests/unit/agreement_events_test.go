package unit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pitchvault/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// awaitSideEffect blocks until an asynchronous side channel fires; transitions
// return before their events, emails and receipts are delivered.
func awaitSideEffect(t *testing.T, fired <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func statusUpdateWith(status string) func(env domain.Envelope) bool {
	return func(env domain.Envelope) bool {
		if env.Type != domain.EnvelopeStatusUpdate {
			return false
		}
		var data domain.StatusUpdateData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return false
		}
		return data.Status == status
	}
}

func (f *agreementFixture) allowEmails() {
	f.emailSvc.On("SendRequestEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.emailSvc.On("SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func TestAgreementService_PublishesStatusUpdates(t *testing.T) {
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New(), FullName: "Ava Stone", Email: "ava@example.com"}
	requesterUser := &domain.User{ID: uuid.New(), FullName: "Ben Cole", Email: "ben@example.com"}
	pitch := &domain.Pitch{ID: uuid.New(), OwnerID: owner.ID, Title: "Ocean Heist"}

	pending := func() *domain.Agreement {
		return &domain.Agreement{
			ID:          uuid.New(),
			PitchID:     pitch.ID,
			OwnerID:     owner.ID,
			RequesterID: requesterUser.ID,
			Status:      domain.StatusPending,
			RequestedAt: time.Now().Add(-time.Hour),
		}
	}

	t.Run("Request Reaches The Owner", func(t *testing.T) {
		f := newWiredAgreementFixture()
		f.allowLookups(pitch, owner, requesterUser)
		f.allowEmails()
		f.agreementRepo.On("FindActiveForPair", ctx, requesterUser.ID, pitch.ID).Return(nil, nil)
		f.agreementRepo.On("Create", ctx, mock.Anything).Return(nil)

		published := make(chan struct{})
		f.publisher.On("Publish", mock.Anything, owner.ID, mock.MatchedBy(statusUpdateWith("requested"))).
			Run(func(mock.Arguments) { close(published) }).Return(nil).Once()

		actor := &domain.Actor{ID: requesterUser.ID, FullName: requesterUser.FullName}
		_, err := f.svc.Create(ctx, actor, domain.CreateAgreementInput{PitchID: pitch.ID})

		require.NoError(t, err)
		awaitSideEffect(t, published, "requested event")
		f.publisher.AssertExpectations(t)
	})

	t.Run("Approval Reaches The Requester", func(t *testing.T) {
		a := pending()

		f := newWiredAgreementFixture()
		f.allowLookups(pitch, owner, requesterUser)
		f.allowEmails()
		f.agreementRepo.On("GetByID", ctx, a.ID).Return(a, nil)
		f.agreementRepo.On("UpdateStatus", ctx, mock.Anything, domain.StatusPending).Return(nil)

		published := make(chan struct{})
		f.publisher.On("Publish", mock.Anything, requesterUser.ID, mock.MatchedBy(statusUpdateWith("approved"))).
			Run(func(mock.Arguments) { close(published) }).Return(nil).Once()

		_, err := f.svc.Approve(ctx, a.ID, owner.ID, domain.ApproveAgreementInput{ExpiryDays: 90}, nil)

		require.NoError(t, err)
		awaitSideEffect(t, published, "approved event")
		f.publisher.AssertExpectations(t)
	})

	t.Run("Rejection Reaches The Requester", func(t *testing.T) {
		a := pending()

		f := newWiredAgreementFixture()
		f.allowLookups(pitch, owner, requesterUser)
		f.allowEmails()
		f.agreementRepo.On("GetByID", ctx, a.ID).Return(a, nil)
		f.agreementRepo.On("UpdateStatus", ctx, mock.Anything, domain.StatusPending).Return(nil)

		published := make(chan struct{})
		f.publisher.On("Publish", mock.Anything, requesterUser.ID, mock.MatchedBy(statusUpdateWith("rejected"))).
			Run(func(mock.Arguments) { close(published) }).Return(nil).Once()

		_, err := f.svc.Reject(ctx, a.ID, owner.ID, domain.RejectAgreementInput{Reason: "slate is full"}, nil)

		require.NoError(t, err)
		awaitSideEffect(t, published, "rejected event")
		f.publisher.AssertExpectations(t)
	})

	t.Run("Signature Reaches The Owner", func(t *testing.T) {
		a := pending()
		a.Status = domain.StatusApproved

		f := newWiredAgreementFixture()
		f.allowLookups(pitch, owner, requesterUser)
		f.allowEmails()
		f.agreementRepo.On("GetByID", ctx, a.ID).Return(a, nil)
		f.agreementRepo.On("UpdateStatus", ctx, mock.Anything, domain.StatusApproved).Return(nil)
		f.archiveSvc.On("StoreSignatureReceipt", mock.Anything, mock.Anything).Return(nil).Maybe()

		published := make(chan struct{})
		f.publisher.On("Publish", mock.Anything, owner.ID, mock.MatchedBy(statusUpdateWith("signed"))).
			Run(func(mock.Arguments) { close(published) }).Return(nil).Once()

		input := domain.SignAgreementInput{Signature: "Ben Cole", FullName: "Ben Cole", AcceptTerms: true}
		_, err := f.svc.Sign(ctx, a.ID, requesterUser.ID, input, nil)

		require.NoError(t, err)
		awaitSideEffect(t, published, "signed event")
		f.publisher.AssertExpectations(t)
	})
}

func TestAgreementService_SignArchivesReceipt(t *testing.T) {
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New(), FullName: "Ava Stone"}
	requesterUser := &domain.User{ID: uuid.New(), FullName: "Ben Cole"}
	pitch := &domain.Pitch{ID: uuid.New(), OwnerID: owner.ID, Title: "Ocean Heist"}

	a := &domain.Agreement{
		ID:          uuid.New(),
		PitchID:     pitch.ID,
		OwnerID:     owner.ID,
		RequesterID: requesterUser.ID,
		Status:      domain.StatusApproved,
		RequestedAt: time.Now().Add(-time.Hour),
	}

	f := newWiredAgreementFixture()
	f.allowLookups(pitch, owner, requesterUser)
	f.allowEmails()
	f.agreementRepo.On("GetByID", ctx, a.ID).Return(a, nil)
	f.agreementRepo.On("UpdateStatus", ctx, mock.Anything, domain.StatusApproved).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	archived := make(chan struct{})
	f.archiveSvc.On("StoreSignatureReceipt", mock.Anything, mock.MatchedBy(func(stored *domain.Agreement) bool {
		return stored.ID == a.ID && stored.Status == domain.StatusSigned
	})).Run(func(mock.Arguments) { close(archived) }).Return(nil).Once()

	input := domain.SignAgreementInput{Signature: "Ben Cole", FullName: "Ben Cole", AcceptTerms: true}
	_, err := f.svc.Sign(ctx, a.ID, requesterUser.ID, input, nil)

	require.NoError(t, err)
	awaitSideEffect(t, archived, "signature receipt")
	f.archiveSvc.AssertExpectations(t)
}

func TestAgreementService_SideChannelEmails(t *testing.T) {
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New(), FullName: "Ava Stone", Email: "ava@example.com"}
	requesterUser := &domain.User{ID: uuid.New(), FullName: "Ben Cole", Email: "ben@example.com"}
	pitch := &domain.Pitch{ID: uuid.New(), OwnerID: owner.ID, Title: "Ocean Heist"}

	t.Run("Request Emails The Owner", func(t *testing.T) {
		f := newWiredAgreementFixture()
		f.allowLookups(pitch, owner, requesterUser)
		f.agreementRepo.On("FindActiveForPair", ctx, requesterUser.ID, pitch.ID).Return(nil, nil)
		f.agreementRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		sent := make(chan struct{})
		f.emailSvc.On("SendRequestEmail", mock.Anything, owner.Email, owner.FullName, requesterUser.FullName, pitch.Title).
			Run(func(mock.Arguments) { close(sent) }).Return(nil).Once()

		actor := &domain.Actor{ID: requesterUser.ID, FullName: requesterUser.FullName}
		_, err := f.svc.Create(ctx, actor, domain.CreateAgreementInput{PitchID: pitch.ID})

		require.NoError(t, err)
		awaitSideEffect(t, sent, "request email")
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("Rejection Emails The Requester With The Reason", func(t *testing.T) {
		a := &domain.Agreement{
			ID:          uuid.New(),
			PitchID:     pitch.ID,
			OwnerID:     owner.ID,
			RequesterID: requesterUser.ID,
			Status:      domain.StatusPending,
			RequestedAt: time.Now().Add(-time.Hour),
		}

		f := newWiredAgreementFixture()
		f.allowLookups(pitch, owner, requesterUser)
		f.agreementRepo.On("GetByID", ctx, a.ID).Return(a, nil)
		f.agreementRepo.On("UpdateStatus", ctx, mock.Anything, domain.StatusPending).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		sent := make(chan struct{})
		f.emailSvc.On("SendDecisionEmail", mock.Anything, requesterUser.Email, requesterUser.FullName, pitch.Title, "rejected", "slate is full").
			Run(func(mock.Arguments) { close(sent) }).Return(nil).Once()

		_, err := f.svc.Reject(ctx, a.ID, owner.ID, domain.RejectAgreementInput{Reason: "slate is full"}, nil)

		require.NoError(t, err)
		awaitSideEffect(t, sent, "decision email")
		f.emailSvc.AssertExpectations(t)
	})
}

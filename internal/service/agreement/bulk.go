package agreement

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pitchvault/internal/domain"
)

const (
	// bulkWorkerLimit bounds the fan-out; items are independent so there is
	// no cross-item transaction to coordinate.
	bulkWorkerLimit = 8

	// defaultBulkExpiryDays applies only when the request carries no
	// proposed term; single approvals always take the term from the owner.
	defaultBulkExpiryDays = 90
)

func (s *service) BulkApprove(ctx context.Context, actorID uuid.UUID, input domain.BulkApproveInput) (*domain.BulkResult, error) {
	if len(input.IDs) == 0 {
		return nil, domain.NewValidationError("ids must not be empty")
	}

	return s.bulk(ctx, input.IDs, func(ctx context.Context, id uuid.UUID) error {
		// Bulk has no per-item expiry input, so the requester's proposed
		// term wins over the default when one was given.
		days := defaultBulkExpiryDays
		if a, err := s.agreementRepo.GetByID(ctx, id); err == nil && a.ProposedExpiryDays != nil && *a.ProposedExpiryDays > 0 {
			days = *a.ProposedExpiryDays
		}
		_, err := s.Approve(ctx, id, actorID, domain.ApproveAgreementInput{ExpiryDays: days}, nil)
		return err
	}), nil
}

func (s *service) BulkReject(ctx context.Context, actorID uuid.UUID, input domain.BulkRejectInput) (*domain.BulkResult, error) {
	if len(input.IDs) == 0 {
		return nil, domain.NewValidationError("ids must not be empty")
	}
	// The reason is required at this boundary; callers collect it however
	// they like, but a default is never assumed.
	if strings.TrimSpace(input.Reason) == "" {
		return nil, domain.NewValidationError("rejection reason is required")
	}

	return s.bulk(ctx, input.IDs, func(ctx context.Context, id uuid.UUID) error {
		_, err := s.Reject(ctx, id, actorID, domain.RejectAgreementInput{Reason: input.Reason}, nil)
		return err
	}), nil
}

// bulk applies one transition per id with bounded parallelism and waits for
// all of them. A failing item lands in Failed and never aborts the rest;
// every input id appears exactly once in the result.
func (s *service) bulk(ctx context.Context, ids []uuid.UUID, apply func(context.Context, uuid.UUID) error) *domain.BulkResult {
	var mu sync.Mutex
	result := &domain.BulkResult{
		Successful: make([]uuid.UUID, 0, len(ids)),
		Failed:     make([]domain.BulkFailure, 0),
	}

	g := new(errgroup.Group)
	g.SetLimit(bulkWorkerLimit)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := apply(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, domain.BulkFailure{ID: id, Error: err.Error()})
			} else {
				result.Successful = append(result.Successful, id)
			}
			return nil
		})
	}

	// Workers record failures per item and never return errors themselves.
	_ = g.Wait()

	return result
}

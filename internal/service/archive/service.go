package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"pitchvault/internal/config"
	"pitchvault/internal/domain"
)

// Service archives executed-signature receipts to object storage. Archiving
// is evidence, not part of the transition itself: a failed upload never fails
// the sign call.
type Service interface {
	StoreSignatureReceipt(ctx context.Context, a *domain.Agreement) error
}

type service struct {
	client *minio.Client
	bucket string
}

func NewService(client *minio.Client, cfg *config.Config) Service {
	return &service{client: client, bucket: cfg.MinIOBucket}
}

type signatureReceipt struct {
	AgreementID   string     `json:"agreement_id"`
	PitchID       string     `json:"pitch_id"`
	OwnerID       string     `json:"owner_id"`
	RequesterID   string     `json:"requester_id"`
	SignatureName string     `json:"signature_name,omitempty"`
	CustomTerms   string     `json:"custom_terms,omitempty"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	ArchivedAt    time.Time  `json:"archived_at"`
}

func (s *service) StoreSignatureReceipt(ctx context.Context, a *domain.Agreement) error {
	if s.client == nil {
		return nil
	}

	receipt := signatureReceipt{
		AgreementID: a.ID.String(),
		PitchID:     a.PitchID.String(),
		OwnerID:     a.OwnerID.String(),
		RequesterID: a.RequesterID.String(),
		SignedAt:    a.SignedAt,
		ArchivedAt:  time.Now().UTC(),
	}
	if a.SignatureName != nil {
		receipt.SignatureName = *a.SignatureName
	}
	if a.CustomTerms != nil {
		receipt.CustomTerms = *a.CustomTerms
	}

	payload, err := json.Marshal(receipt)
	if err != nil {
		return err
	}

	objectName := fmt.Sprintf("receipts/%s.json", a.ID)
	_, err = s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	return err
}

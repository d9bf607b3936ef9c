package service

import (
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"pitchvault/internal/config"
	"pitchvault/internal/repository"
	"pitchvault/internal/service/agreement"
	"pitchvault/internal/service/archive"
	"pitchvault/internal/service/email"
	"pitchvault/internal/service/notification"
	"pitchvault/internal/service/stream"
)

type Services struct {
	Agreement    agreement.Service
	Notification notification.Service
	Email        email.Service
	Archive      archive.Service
	Stream       *stream.Factory
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	emailService := email.NewService(cfg)
	archiveService := archive.NewService(minioClient, cfg)

	notificationService := notification.NewService(
		repos.Agreement, repos.User, repos.Pitch, repos.NotificationState,
		cfg.ExpiryWarningWindow,
	)

	agreementService := agreement.NewService(
		repos.Agreement, repos.Pitch, repos.User, repos.AuditLog,
		emailService, archiveService,
	)
	agreementService.SetPublisher(stream.NewPublisher(rdb))

	streamFactory := stream.NewFactory(rdb, notificationService, 30*time.Second)

	return &Services{
		Agreement:    agreementService,
		Notification: notificationService,
		Email:        emailService,
		Archive:      archiveService,
		Stream:       streamFactory,
	}
}

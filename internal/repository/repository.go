package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	Agreement         AgreementRepository
	Pitch             PitchRepository
	User              UserRepository
	AuditLog          AuditLogRepository
	NotificationState NotificationStateRepository
}

func NewRepositories(db *sqlx.DB, rdb *redis.Client) *Repositories {
	return &Repositories{
		Agreement:         NewAgreementRepository(db),
		Pitch:             NewPitchRepository(db),
		User:              NewUserRepository(db),
		AuditLog:          NewAuditLogRepository(db),
		NotificationState: NewNotificationStateRepository(rdb),
	}
}

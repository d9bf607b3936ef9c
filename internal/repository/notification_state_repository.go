package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pitchvault/internal/domain"
)

// NotificationStateRepository persists the two actor-scoped viewing sets:
// read and deleted notification ids. This is actor-local state, deliberately
// kept apart from the agreement record, and it must survive restarts.
type NotificationStateRepository interface {
	MarkRead(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error
	MarkDeleted(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error
	ReadSet(ctx context.Context, actorID uuid.UUID) (map[uuid.UUID]struct{}, error)
	DeletedSet(ctx context.Context, actorID uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type notificationStateRepository struct {
	rdb *redis.Client
}

func NewNotificationStateRepository(rdb *redis.Client) NotificationStateRepository {
	return &notificationStateRepository{rdb: rdb}
}

func readKey(actorID uuid.UUID) string {
	return fmt.Sprintf("notifications.read.%s", actorID)
}

func deletedKey(actorID uuid.UUID) string {
	return fmt.Sprintf("notifications.deleted.%s", actorID)
}

// MarkRead is an idempotent set union; repeating ids is a no-op.
func (r *notificationStateRepository) MarkRead(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	return r.add(ctx, readKey(actorID), ids)
}

func (r *notificationStateRepository) MarkDeleted(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	return r.add(ctx, deletedKey(actorID), ids)
}

func (r *notificationStateRepository) add(ctx context.Context, key string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, id.String())
	}
	if err := r.rdb.SAdd(ctx, key, members...).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func (r *notificationStateRepository) ReadSet(ctx context.Context, actorID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return r.members(ctx, readKey(actorID))
}

func (r *notificationStateRepository) DeletedSet(ctx context.Context, actorID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return r.members(ctx, deletedKey(actorID))
}

func (r *notificationStateRepository) members(ctx context.Context, key string) (map[uuid.UUID]struct{}, error) {
	raw, err := r.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	set := make(map[uuid.UUID]struct{}, len(raw))
	for _, member := range raw {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set, nil
}

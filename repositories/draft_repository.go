package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftRepository stores the device-local slots: one draft slot per
// device and one-shot preview payloads. Draft slots have no expiry;
// previews expire and are deleted on first read.
type DraftRepository interface {
	Save(ctx context.Context, deviceID string, payload []byte) error
	Get(ctx context.Context, deviceID string) ([]byte, error)
	Clear(ctx context.Context, deviceID string) error
	SavePreview(ctx context.Context, token string, payload []byte, ttl time.Duration) error
	TakePreview(ctx context.Context, token string) ([]byte, error)
}

type draftRepository struct {
	rdb *redis.Client
}

func NewDraftRepository(rdb *redis.Client) DraftRepository {
	return &draftRepository{rdb: rdb}
}

func draftKey(deviceID string) string { return "draft:" + deviceID }
func previewKey(token string) string  { return "preview:" + token }

func (r *draftRepository) Save(ctx context.Context, deviceID string, payload []byte) error {
	return r.rdb.Set(ctx, draftKey(deviceID), payload, 0).Err()
}

// Get returns (nil, nil) when the slot is empty.
func (r *draftRepository) Get(ctx context.Context, deviceID string) ([]byte, error) {
	payload, err := r.rdb.Get(ctx, draftKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return payload, err
}

func (r *draftRepository) Clear(ctx context.Context, deviceID string) error {
	return r.rdb.Del(ctx, draftKey(deviceID)).Err()
}

func (r *draftRepository) SavePreview(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, previewKey(token), payload, ttl).Err()
}

func (r *draftRepository) TakePreview(ctx context.Context, token string) ([]byte, error) {
	payload, err := r.rdb.GetDel(ctx, previewKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return payload, err
}

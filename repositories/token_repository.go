package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepository keeps short-lived password-reset tokens.
type TokenRepository interface {
	SaveResetToken(ctx context.Context, token string, userID uint, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (uint, error)
}

type tokenRepository struct {
	rdb *redis.Client
}

func NewTokenRepository(rdb *redis.Client) TokenRepository {
	return &tokenRepository{rdb: rdb}
}

func resetKey(token string) string { return "pwreset:" + token }

func (r *tokenRepository) SaveResetToken(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return r.rdb.Set(ctx, resetKey(token), strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

// ConsumeResetToken deletes the token so it can be used once. Returns 0
// when the token is unknown or expired.
func (r *tokenRepository) ConsumeResetToken(ctx context.Context, token string) (uint, error) {
	val, err := r.rdb.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

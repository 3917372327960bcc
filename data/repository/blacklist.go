package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/redis/go-redis/v9"
)

// ErrUnavailable indicates the revocation store could not be reached. Callers
// treat a write as a soft failure and a read as "not blocked" (fail-open).
var ErrUnavailable = errors.New("revocation store unavailable")

const (
	tokenKeyPrefix  = "token:"
	blockedSentinel = "Blocked"
)

// TokenBlacklist marks specific tokens unusable before their natural expiry.
type TokenBlacklist interface {
	// Block records the token as revoked until expiresAt, when the entry
	// self-removes. Tokens already past expiry are not recorded.
	Block(ctx context.Context, token string, expiresAt time.Time) error
	// IsBlocked reports whether the token has been revoked.
	IsBlocked(ctx context.Context, token string) (bool, error)
}

type redisTokenBlacklist struct {
	client *redis.Client
	logger *logger.Logger
}

// NewTokenBlacklist creates a Redis-backed token blacklist. A nil client is
// accepted and yields a blacklist that always reports ErrUnavailable.
func NewTokenBlacklist(client *redis.Client, logger *logger.Logger) TokenBlacklist {
	return &redisTokenBlacklist{
		client: client,
		logger: logger,
	}
}

// Block writes the revocation entry, expiring at the token's own expiry so the
// store never accumulates stale entries.
func (b *redisTokenBlacklist) Block(ctx context.Context, token string, expiresAt time.Time) error {
	if b.client == nil {
		return ErrUnavailable
	}

	if !expiresAt.After(time.Now()) {
		return nil
	}

	err := b.client.SetArgs(ctx, tokenKeyPrefix+token, blockedSentinel, redis.SetArgs{
		ExpireAt: expiresAt,
	}).Err()
	if err != nil {
		b.logger.Warn(ctx, "failed to write revocation entry", "error", err)
		return ErrUnavailable
	}

	return nil
}

// IsBlocked checks for a revocation entry.
func (b *redisTokenBlacklist) IsBlocked(ctx context.Context, token string) (bool, error) {
	if b.client == nil {
		return false, ErrUnavailable
	}

	err := b.client.Get(ctx, tokenKeyPrefix+token).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		b.logger.Warn(ctx, "failed to read revocation entry", "error", err)
		return false, ErrUnavailable
	}

	return true, nil
}

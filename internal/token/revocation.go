package token

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationPrefix = "revoked:"

// RevocationSet stores revoked token ids in Redis with per-key TTL.
type RevocationSet struct {
	client *redis.Client
}

// NewRevocationSet constructs a RevocationSet around an existing client.
func NewRevocationSet(client *redis.Client) *RevocationSet {
	return &RevocationSet{client: client}
}

// Add marks a jti revoked for the given duration.
func (r *RevocationSet) Add(ctx context.Context, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, revocationPrefix+jti, "true", ttl).Err()
}

// Contains reports whether the jti is currently revoked.
func (r *RevocationSet) Contains(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, revocationPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

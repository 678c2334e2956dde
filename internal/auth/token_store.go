package auth

import (
	"context"
	"time"

	"realestate/internal/cache"
)

const revokedKeyPrefix = "revoked:jti:"

// RevocationStore remembers access tokens that were logged out before expiry.
type RevocationStore interface {
	// Revoke blocks the token described by claims until it would have expired.
	Revoke(ctx context.Context, claims *Claims) error
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

// RedisRevocationStore keeps revoked token ids in the cache under their remaining lifetime.
// With the cache disabled nothing is ever revoked.
type RedisRevocationStore struct {
	cache *cache.Client
	now   func() time.Time
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// NewRevocationStore creates a revocation store on c.
func NewRevocationStore(c *cache.Client) *RedisRevocationStore {
	return &RedisRevocationStore{cache: c, now: time.Now}
}

// Revoke records claims.ID. Tokens without an id or already expired are ignored.
func (s *RedisRevocationStore) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Sub(s.now())
	s.cache.Set(ctx, revokedKeyPrefix+claims.ID, []byte(claims.Subject), remaining)
	return nil
}

// IsRevoked reports whether claims.ID was revoked.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if claims == nil || claims.ID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedKeyPrefix+claims.ID), nil
}

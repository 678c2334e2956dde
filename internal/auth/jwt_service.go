package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"realestate/internal/model"
)

// DefaultAccessTokenTTL is the lifetime of an access token when the caller does not pick one.
const DefaultAccessTokenTTL = 30 * time.Minute

// ErrInvalidToken is returned for any token that fails signature, structure or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims. Subject carries the account email.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the subject/role pair embedded in a token.
type Identity struct {
	Subject string
	Role    model.Role
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and default ttl.
func NewJWTService(secret string, defaultTTL time.Duration) *JWTService {
	if defaultTTL <= 0 {
		defaultTTL = DefaultAccessTokenTTL
	}
	return &JWTService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// WithClock returns a copy of s that reads time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	c := *s
	c.now = now
	return &c
}

// Issue signs a token for id valid for ttl, or the default ttl when ttl is not positive.
// It returns the token and its parsed claims.
func (s *JWTService) Issue(id Identity, ttl time.Duration) (string, *Claims, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()
	claims := &Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify validates a token and returns its claims. Signature mismatches,
// malformed tokens, missing subjects and expired tokens all yield ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(s.now(), true) || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

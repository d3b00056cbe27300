// Package auth issues and checks the bearer tokens handed out by /login.
// A token is an HS256 JWT whose jti names a session kept in the cache;
// logging out deletes the session, which invalidates the token early.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"starwars-api/config"
	"starwars-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/umakantv/go-utils/cache"
)

// SessionKey prefix for cache entries
const sessionKeyPrefix = "session:"

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found or expired")
)

// Claims carried by a session token
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager issues, verifies and revokes session tokens
type SessionManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	cache  cache.Cache
	now    func() time.Time
}

// NewSessionManager creates a session manager backed by the given cache
func NewSessionManager(cfg config.AuthConfig, c cache.Cache) *SessionManager {
	return &SessionManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		cache:  c,
		now:    time.Now,
	}
}

// Issue signs a token for user and records its session
func (m *SessionManager) Issue(user *models.User) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    m.issuer,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	sessionData := map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	}
	if err := m.cache.Set(sessionKeyPrefix+claims.ID, sessionData, m.ttl); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}
	return token, claims, nil
}

// Verify checks the token signature, expiry and issuer, then requires that
// its session has not been revoked
func (m *SessionManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	if _, err := m.cache.Get(sessionKeyPrefix + claims.ID); err != nil {
		return nil, ErrSessionNotFound
	}
	return claims, nil
}

// Revoke ends the session behind claims
func (m *SessionManager) Revoke(claims *Claims) {
	m.cache.Delete(sessionKeyPrefix + claims.ID)
}

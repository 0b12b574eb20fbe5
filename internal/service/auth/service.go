package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/metung95-cpu/ajet-stock/internal/config"
	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned for a missing, malformed or badly signed token.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrSessionExpired is returned once a session is logged out, idle or past its expiry.
	ErrSessionExpired = errors.New("session expired")
)

type account struct {
	role         models.Role
	passwordHash []byte
}

type sessionClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service authenticates the configured accounts and manages their sessions.
type Service struct {
	accounts map[string]account
	store    *SessionStore
	secret   []byte
	idle     time.Duration
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService builds the account table from configuration.
func NewService(cfg config.AuthConfig, store *SessionStore, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewSessionStore()
	}

	accounts := make(map[string]account, len(cfg.Accounts))
	for _, acc := range cfg.Accounts {
		role, err := models.ParseRole(acc.Role)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acc.Username, err)
		}
		if _, err := bcrypt.Cost([]byte(acc.PasswordHash)); err != nil {
			return nil, fmt.Errorf("account %s: password hash is not bcrypt: %w", acc.Username, err)
		}
		accounts[normalizeUsername(acc.Username)] = account{role: role, passwordHash: []byte(acc.PasswordHash)}
	}

	return &Service{
		accounts: accounts,
		store:    store,
		secret:   []byte(cfg.SessionSecret),
		idle:     cfg.IdleTimeout,
		ttl:      cfg.TokenTTL,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Login checks the credentials and opens a session. The username is trimmed and
// upper-cased and the password trimmed before comparison.
func (s *Service) Login(_ context.Context, username, password string) (models.Session, string, error) {
	username = normalizeUsername(username)
	acc, ok := s.accounts[username]
	if !ok {
		return models.Session{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(strings.TrimSpace(password))); err != nil {
		s.logger.Info("login rejected", zap.String("username", username))
		return models.Session{}, "", ErrInvalidCredentials
	}

	now := s.now()
	sess := models.Session{
		ID:           uuid.NewString(),
		Username:     username,
		Role:         acc.role,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.ttl),
	}

	token, err := s.sign(sess)
	if err != nil {
		return models.Session{}, "", err
	}

	s.store.Put(sess)
	s.logger.Info("session opened", zap.String("username", username), zap.String("role", string(acc.role)))
	return sess, token, nil
}

// Authenticate resolves a token to its live session and records activity.
func (s *Service) Authenticate(_ context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrInvalidToken
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			s.store.Delete(claims.ID)
			return models.Session{}, ErrSessionExpired
		}
		return models.Session{}, ErrInvalidToken
	}

	sess, ok := s.store.Get(claims.ID)
	if !ok {
		return models.Session{}, ErrSessionExpired
	}

	now := s.now()
	if sess.Expired(now, s.idle) {
		s.store.Delete(sess.ID)
		return models.Session{}, ErrSessionExpired
	}

	sess, ok = s.store.Touch(sess.ID, now)
	if !ok {
		return models.Session{}, ErrSessionExpired
	}
	return sess, nil
}

// Logout invalidates a session.
func (s *Service) Logout(_ context.Context, sessionID string) {
	s.store.Delete(sessionID)
	s.logger.Info("session closed", zap.String("session_id", sessionID))
}

// SweepExpired removes idle and expired sessions.
func (s *Service) SweepExpired() int {
	return s.store.DeleteExpired(s.now(), s.idle)
}

// TokenTTL is the absolute lifetime of a session token.
func (s *Service) TokenTTL() time.Duration {
	return s.ttl
}

func (s *Service) sign(sess models.Session) (string, error) {
	claims := sessionClaims{
		Role: sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.Username,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func normalizeUsername(username string) string {
	return strings.ToUpper(strings.TrimSpace(username))
}

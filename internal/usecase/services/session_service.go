package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/logger"
)

const sessionTokenBytes = 16

type sessionEntry struct {
	username  string
	createdAt time.Time
}

// SessionService holds the process-local token table. Sessions are not
// persisted; a restart only forces re-login.
type SessionService struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]sessionEntry
}

// NewSessionService creates an empty session table. A ttl of zero disables
// expiry.
func NewSessionService(ttl time.Duration) *SessionService {
	return &SessionService{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *SessionService) Create(username string) (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[token] = sessionEntry{username: username, createdAt: time.Now()}
	s.mu.Unlock()

	logger.Info("session service session created", logger.Fields{
		"username": username,
	})
	return token, nil
}

// Validate resolves a token to its username. Validation does not extend the
// session's lifetime.
func (s *SessionService) Validate(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if s.ttl > 0 && time.Since(entry.createdAt) > s.ttl {
		delete(s.sessions, token)
		return "", domain.ErrUnauthorized
	}
	return entry.username, nil
}

// Invalidate is idempotent; removing an unknown token is a no-op.
func (s *SessionService) Invalidate(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/mergington-activities-api/internal/models"
)

// MemorySessionRepository keeps teacher sessions in process memory. Each
// username holds at most one token; saving a new one drops the old token.
// Entries never expire on their own.
type MemorySessionRepository struct {
	mu      sync.RWMutex
	byUser  map[string]string
	byToken map[string]string
}

// NewMemorySessionRepository returns an empty session registry.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		byUser:  make(map[string]string),
		byToken: make(map[string]string),
	}
}

// Save stores the session, replacing any token the user already held. The
// ttl is ignored; sessions live until logout or restart.
func (r *MemorySessionRepository) Save(ctx context.Context, session models.Session, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byUser[session.Username]; ok {
		delete(r.byToken, old)
	}
	r.byUser[session.Username] = session.Token
	r.byToken[session.Token] = session.Username
	return nil
}

// FindUsername resolves a token to the username owning it.
func (r *MemorySessionRepository) FindUsername(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	username, ok := r.byToken[token]
	if !ok || token == "" {
		return "", ErrSessionNotFound
	}
	return username, nil
}

// DeleteByToken removes the session owning token and returns its username.
func (r *MemorySessionRepository) DeleteByToken(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.byToken[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	delete(r.byToken, token)
	delete(r.byUser, username)
	return username, nil
}

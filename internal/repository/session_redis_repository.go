package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/mergington-activities-api/internal/models"
)

const (
	sessionKeyPrefix = "mergington:session:"
	maxWatchRetries  = 10
)

// RedisSessionRepository shares sessions across API instances. Two keys are
// kept per session (user -> token and token -> user) and both expire with
// the cookie.
type RedisSessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSessionRepository constructs a Redis-backed session registry.
func NewRedisSessionRepository(client *redis.Client, logger *zap.Logger) *RedisSessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionRepository{client: client, logger: logger}
}

func userKey(username string) string { return sessionKeyPrefix + "user:" + username }

func tokenKey(token string) string { return sessionKeyPrefix + "token:" + token }

// Save stores the session and drops the token the user previously held.
// The read of the previous token and the writes run under WATCH on the user
// key, so concurrent logins for one teacher leave a single live token.
func (r *RedisSessionRepository) Save(ctx context.Context, session models.Session, ttl time.Duration) error {
	key := userKey(session.Username)
	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if old != "" && old != session.Token {
				pipe.Del(ctx, tokenKey(old))
			}
			pipe.Set(ctx, key, session.Token, ttl)
			pipe.Set(ctx, tokenKey(session.Token), session.Username, ttl)
			return nil
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("redis save session for %s: %w", session.Username, err)
	}
	return nil
}

// FindUsername resolves a token to the username owning it.
func (r *RedisSessionRepository) FindUsername(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}
	username, err := r.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("redis get session token: %w", err)
	}
	return username, nil
}

// DeleteByToken removes the session owning token and returns its username.
// The user key is only cleared while it still points at this token, so a
// concurrent re-login is left intact.
func (r *RedisSessionRepository) DeleteByToken(ctx context.Context, token string) (string, error) {
	username, err := r.FindUsername(ctx, token)
	if err != nil {
		return "", err
	}

	key := userKey(username)
	err = r.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, tokenKey(token))
			if current == token {
				pipe.Del(ctx, key)
			}
			return nil
		})
		return err
	})
	if err != nil {
		r.logger.Warn("redis session delete failed", zap.String("username", username), zap.Error(err))
		return "", fmt.Errorf("redis delete session for %s: %w", username, err)
	}
	return username, nil
}

// watch runs fn as an optimistic transaction on key, retrying when another
// client changed the key first.
func (r *RedisSessionRepository) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.client.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		r.logger.Debug("redis session watch conflict", zap.String("key", key), zap.Int("attempt", attempt+1))
	}
	return redis.TxFailedErr
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mergington-activities-api/internal/models"
)

func TestMemorySessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	require.NoError(t, repo.Save(ctx, models.Session{Username: "mrodriguez", Token: "tok-1"}, 0))
	username, err := repo.FindUsername(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "mrodriguez", username)

	removed, err := repo.DeleteByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "mrodriguez", removed)

	_, err = repo.FindUsername(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.DeleteByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepositoryNewLoginInvalidatesOldToken(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	require.NoError(t, repo.Save(ctx, models.Session{Username: "mchen", Token: "old"}, 0))
	require.NoError(t, repo.Save(ctx, models.Session{Username: "mchen", Token: "new"}, 0))

	_, err := repo.FindUsername(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	username, err := repo.FindUsername(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "mchen", username)
}

func TestMemorySessionRepositoryUnknownToken(t *testing.T) {
	repo := NewMemorySessionRepository()
	_, err := repo.FindUsername(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.DeleteByToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepositoryConcurrentLogins(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Save(ctx, models.Session{Username: fmt.Sprintf("teacher-%d", i%5), Token: fmt.Sprintf("tok-%d", i)}, 0)
		}(i)
	}
	wg.Wait()

	live := make(map[string]int)
	for i := 0; i < 50; i++ {
		if username, err := repo.FindUsername(ctx, fmt.Sprintf("tok-%d", i)); err == nil {
			live[username]++
		}
	}
	require.Len(t, live, 5)
	for username, n := range live {
		assert.Equal(t, 1, n, username)
	}
}

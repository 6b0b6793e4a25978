package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NalinDalal/ToDoist-be/internal/models"
)

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u, err := s.CreateUser(ctx, "alice", "hash1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = s.CreateUser(ctx, "alice", "hash2")
	require.ErrorIs(t, err, models.ErrUsernameTaken)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash1", got.PasswordHash, "first user must be unaffected by the duplicate signup")

	_, err = s.GetUserByUsername(ctx, "Alice")
	require.ErrorIs(t, err, models.ErrNotFound, "usernames are case-sensitive")
}

func TestMemoryStore_ConcurrentSignupSameName(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateUser(ctx, "bob", "h"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, h := range []string{"first", "second", "third"} {
		_, err := s.CreateTask(ctx, 1, h, "", models.DefaultTaskStatus)
		require.NoError(t, err)
	}

	tasks, err := s.ListTasksByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Heading)
	assert.Equal(t, "second", tasks[1].Heading)
	assert.Equal(t, "first", tasks[2].Heading)
}

func TestMemoryStore_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a, err := s.CreateTask(ctx, 1, "a's task", "", "pending")
	require.NoError(t, err)
	b, err := s.CreateTask(ctx, 2, "b's task", "", "pending")
	require.NoError(t, err)

	listA, err := s.ListTasksByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, a.ID, listA[0].ID)

	_, err = s.UpdateTaskStatus(ctx, b.ID, 1, "hijacked")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.ErrorIs(t, s.DeleteTask(ctx, b.ID, 1), models.ErrNotFound)

	listB, err := s.ListTasksByOwner(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "pending", listB[0].Status)
}

func TestMemoryStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	task, err := s.CreateTask(ctx, 1, "h", "b", "pending")
	require.NoError(t, err)

	updated, err := s.UpdateTaskStatus(ctx, task.ID, 1, "done")
	require.NoError(t, err)
	assert.Equal(t, "done", updated.Status)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.DeleteTask(ctx, task.ID, 1))
	require.ErrorIs(t, s.DeleteTask(ctx, task.ID, 1), models.ErrNotFound)
	_, err = s.UpdateTaskStatus(ctx, 999, 1, "done")
	require.ErrorIs(t, err, models.ErrNotFound)

	tasks, err := s.ListTasksByOwner(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

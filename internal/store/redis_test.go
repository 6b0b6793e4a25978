package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NalinDalal/ToDoist-be/internal/models"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb)
}

func TestRedisKeys(t *testing.T) {
	assert.Equal(t, "user:name:alice", userNameKey("alice"))
	assert.Equal(t, "user:7", userKey(7))
	assert.Equal(t, "task:12", taskKey(12))
	assert.Equal(t, "user:7:tasks", ownerTasksKey(7))
}

func TestParseCreated(t *testing.T) {
	createdAt, err := parseCreated([]interface{}{"1700000000", "250000"})
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 250*int64(time.Millisecond)).UTC(), createdAt)

	_, err = parseCreated([]interface{}{"1700000000"})
	require.Error(t, err)
	_, err = parseCreated([]interface{}{int64(1), "2"})
	require.Error(t, err)
}

func TestTaskFromFields(t *testing.T) {
	task, err := taskFromFields(map[string]string{
		"id":           "4",
		"heading":      "buy milk",
		"body":         "2%",
		"status":       "pending",
		"user_id":      "1",
		"created_sec":  "1700000000",
		"created_usec": "0",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), task.ID)
	assert.Equal(t, int64(1), task.UserID)
	assert.Equal(t, "buy milk", task.Heading)
	assert.Equal(t, "2%", task.Body)

	_, err = taskFromFields(map[string]string{"id": "x"})
	require.Error(t, err)
}

func TestRedisStore_Users(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	u, err := s.CreateUser(ctx, "alice", "hash1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = s.CreateUser(ctx, "alice", "hash2")
	require.ErrorIs(t, err, models.ErrUsernameTaken)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash1", got.PasswordHash, "first user must be unaffected by the duplicate signup")
	assert.Equal(t, u.CreatedAt, got.CreatedAt)

	_, err = s.GetUserByUsername(ctx, "Alice")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRedisStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

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

	empty, err := s.ListTasksByOwner(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRedisStore_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	a, err := s.CreateTask(ctx, 1, "a's task", "", "pending")
	require.NoError(t, err)
	b, err := s.CreateTask(ctx, 2, "b's task", "body", "pending")
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
	assert.Equal(t, b.ID, listB[0].ID)
	assert.Equal(t, "pending", listB[0].Status)
	assert.Equal(t, "body", listB[0].Body)
}

func TestRedisStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	task, err := s.CreateTask(ctx, 1, "buy milk", "2%", "pending")
	require.NoError(t, err)

	updated, err := s.UpdateTaskStatus(ctx, task.ID, 1, "done")
	require.NoError(t, err)
	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, "done", updated.Status)
	assert.Equal(t, "buy milk", updated.Heading)
	assert.Equal(t, "2%", updated.Body)
	assert.Equal(t, int64(1), updated.UserID)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.DeleteTask(ctx, task.ID, 1))
	require.ErrorIs(t, s.DeleteTask(ctx, task.ID, 1), models.ErrNotFound)
	_, err = s.UpdateTaskStatus(ctx, 999, 1, "done")
	require.ErrorIs(t, err, models.ErrNotFound)

	tasks, err := s.ListTasksByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

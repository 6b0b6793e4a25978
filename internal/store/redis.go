package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NalinDalal/ToDoist-be/internal/models"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// Key layout:
//
//	user:seq, task:seq        id sequences
//	user:name:<username>      user id
//	user:<id>                 user hash
//	task:<id>                 task hash
//	user:<id>:tasks           sorted set of task ids, scored by id
//
// Ids are reserved with INCR before the scripts run, so every key a script
// touches is passed in KEYS. The keys of one script do not share a hash slot,
// so the store needs a single-node (non-cluster) Redis.
//
// Every check-then-write runs inside a Lua script so it is atomic on the server.
// A rejected check replies with an empty array rather than false, which RESP3
// would deliver as a boolean.
var (
	createUserScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return {}
end
local t = redis.call('TIME')
redis.call('SET', KEYS[1], ARGV[1])
redis.call('HSET', KEYS[2], 'id', ARGV[1], 'username', ARGV[2], 'password', ARGV[3],
  'created_sec', t[1], 'created_usec', t[2])
return {t[1], t[2]}
`)

	createTaskScript = redis.NewScript(`
local t = redis.call('TIME')
redis.call('HSET', KEYS[1], 'id', ARGV[1], 'heading', ARGV[3], 'body', ARGV[4], 'status', ARGV[5],
  'user_id', ARGV[2], 'created_sec', t[1], 'created_usec', t[2])
redis.call('ZADD', KEYS[2], ARGV[1], ARGV[1])
return {t[1], t[2]}
`)

	updateStatusScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'user_id') ~= ARGV[1] then
  return {}
end
redis.call('HSET', KEYS[1], 'status', ARGV[2])
return redis.call('HGETALL', KEYS[1])
`)

	deleteTaskScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'user_id') ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[2])
return 1
`)
)

// RedisStore handles users and todos in Redis hashes.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func userNameKey(username string) string { return "user:name:" + username }
func userKey(id int64) string            { return "user:" + strconv.FormatInt(id, 10) }
func taskKey(id int64) string            { return "task:" + strconv.FormatInt(id, 10) }
func ownerTasksKey(ownerID int64) string { return "user:" + strconv.FormatInt(ownerID, 10) + ":tasks" }

func (s *RedisStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	id, err := s.rdb.Incr(ctx, "user:seq").Result()
	if err != nil {
		return nil, fmt.Errorf("redis reserve user id: %w", err)
	}
	res, err := createUserScript.Run(ctx, s.rdb,
		[]string{userNameKey(username), userKey(id)},
		id, username, passwordHash,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("redis create user: %w", err)
	}
	if len(res) == 0 {
		return nil, models.ErrUsernameTaken
	}
	createdAt, err := parseCreated(res)
	if err != nil {
		return nil, fmt.Errorf("redis create user: %w", err)
	}
	return &models.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: createdAt}, nil
}

func (s *RedisStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	id, err := s.rdb.Get(ctx, userNameKey(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get user id: %w", err)
	}
	fields, err := s.rdb.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get user: %w", err)
	}
	if len(fields) == 0 {
		return nil, models.ErrNotFound
	}
	createdAt, err := parseTimeFields(fields)
	if err != nil {
		return nil, fmt.Errorf("redis get user: %w", err)
	}
	return &models.User{
		ID:           id,
		Username:     fields["username"],
		PasswordHash: fields["password"],
		CreatedAt:    createdAt,
	}, nil
}

func (s *RedisStore) CreateTask(ctx context.Context, ownerID int64, heading, body, status string) (*models.Task, error) {
	id, err := s.rdb.Incr(ctx, "task:seq").Result()
	if err != nil {
		return nil, fmt.Errorf("redis reserve todo id: %w", err)
	}
	res, err := createTaskScript.Run(ctx, s.rdb,
		[]string{taskKey(id), ownerTasksKey(ownerID)},
		id, ownerID, heading, body, status,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("redis create todo: %w", err)
	}
	createdAt, err := parseCreated(res)
	if err != nil {
		return nil, fmt.Errorf("redis create todo: %w", err)
	}
	return &models.Task{
		ID:        id,
		Heading:   heading,
		Body:      body,
		Status:    status,
		UserID:    ownerID,
		CreatedAt: createdAt,
	}, nil
}

func (s *RedisStore) ListTasksByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	ids, err := s.rdb.ZRevRange(ctx, ownerTasksKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list todos: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, "task:"+id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis load todos: %w", err)
	}

	tasks := make([]models.Task, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		t, err := taskFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("redis decode todo: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (s *RedisStore) UpdateTaskStatus(ctx context.Context, id, ownerID int64, status string) (*models.Task, error) {
	res, err := updateStatusScript.Run(ctx, s.rdb,
		[]string{taskKey(id)},
		strconv.FormatInt(ownerID, 10), status,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("redis update todo: %w", err)
	}
	if len(res) == 0 {
		return nil, models.ErrNotFound
	}

	fields := make(map[string]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		k, _ := res[i].(string)
		v, _ := res[i+1].(string)
		fields[k] = v
	}
	t, err := taskFromFields(fields)
	if err != nil {
		return nil, fmt.Errorf("redis decode todo: %w", err)
	}
	return t, nil
}

func (s *RedisStore) DeleteTask(ctx context.Context, id, ownerID int64) error {
	n, err := deleteTaskScript.Run(ctx, s.rdb,
		[]string{taskKey(id), ownerTasksKey(ownerID)},
		strconv.FormatInt(ownerID, 10), strconv.FormatInt(id, 10),
	).Int64()
	if err != nil {
		return fmt.Errorf("redis delete todo: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// parseCreated reads the {seconds, microseconds} reply of the create scripts.
func parseCreated(res []interface{}) (time.Time, error) {
	if len(res) != 2 {
		return time.Time{}, fmt.Errorf("unexpected script reply of length %d", len(res))
	}
	sec, ok := res[0].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected seconds type %T", res[0])
	}
	usec, _ := res[1].(string)
	return parseTimeFields(map[string]string{"created_sec": sec, "created_usec": usec})
}

func parseTimeFields(fields map[string]string) (time.Time, error) {
	sec, err := strconv.ParseInt(fields["created_sec"], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("created_sec: %w", err)
	}
	usec, err := strconv.ParseInt(fields["created_usec"], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("created_usec: %w", err)
	}
	return time.Unix(sec, usec*int64(time.Microsecond)).UTC(), nil
}

func taskFromFields(fields map[string]string) (*models.Task, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	ownerID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("user_id: %w", err)
	}
	createdAt, err := parseTimeFields(fields)
	if err != nil {
		return nil, err
	}
	return &models.Task{
		ID:        id,
		Heading:   fields["heading"],
		Body:      fields["body"],
		Status:    fields["status"],
		UserID:    ownerID,
		CreatedAt: createdAt,
	}, nil
}

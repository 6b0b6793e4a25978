package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NalinDalal/ToDoist-be/internal/models"
)

// MemoryStore keeps users and tasks in process memory. All operations hold
// a single mutex, so the id+owner checks are atomic with their mutation.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]models.User
	byUsername map[string]int64
	tasks      map[int64]models.Task
	nextUserID int64
	nextTaskID int64
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]models.User),
		byUsername: make(map[string]int64),
		tasks:      make(map[int64]models.Task),
		now:        time.Now,
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[username]; taken {
		return nil, models.ErrUsernameTaken
	}
	s.nextUserID++
	u := models.User{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.users[u.ID] = u
	s.byUsername[username] = u.ID
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, ownerID int64, heading, body, status string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	t := models.Task{
		ID:        s.nextTaskID,
		Heading:   heading,
		Body:      body,
		Status:    status,
		UserID:    ownerID,
		CreatedAt: s.now().UTC(),
	}
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *MemoryStore) ListTasksByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.UserID == ownerID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (s *MemoryStore) UpdateTaskStatus(ctx context.Context, id, ownerID int64, status string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, models.ErrNotFound
	}
	t.Status = status
	s.tasks[id] = t
	return &t, nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return models.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

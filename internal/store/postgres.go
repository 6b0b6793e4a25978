package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NalinDalal/ToDoist-be/internal/models"
)

const pgUniqueViolation = "23505"

// isClientDataError reports whether a PostgreSQL error belongs to class 22
// (data exception) or 23 (integrity constraint violation).
func isClientDataError(pgErr *pgconn.PgError) bool {
	return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
}

// PostgresStore handles users and todos against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users and todos tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			username   TEXT        UNIQUE NOT NULL,
			password   TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS todos (
			id         BIGSERIAL PRIMARY KEY,
			heading    TEXT        NOT NULL,
			body       TEXT        NOT NULL,
			status     TEXT        NOT NULL DEFAULT 'pending',
			user_id    BIGINT      NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS todos_user_created_idx ON todos (user_id, created_at DESC);
	`)
	return err
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password)
		 VALUES ($1, $2)
		 RETURNING id, username, password, created_at`,
		username, passwordHash,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgUniqueViolation {
				return nil, models.ErrUsernameTaken
			}
			if isClientDataError(pgErr) {
				return nil, fmt.Errorf("%w: %s", models.ErrConstraintViolation, pgErr.Code)
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

const todoColumns = `id, heading, body, status, user_id, created_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.Heading, &t.Body, &t.Status, &t.UserID, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) CreateTask(ctx context.Context, ownerID int64, heading, body, status string) (*models.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx,
		`INSERT INTO todos (heading, body, status, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+todoColumns,
		heading, body, status, ownerID,
	))
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTasksByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+todoColumns+` FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus changes the status of the todo matching both id and owner
// in a single statement.
func (s *PostgresStore) UpdateTaskStatus(ctx context.Context, id, ownerID int64, status string) (*models.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx,
		`UPDATE todos SET status = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+todoColumns,
		status, id, ownerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id, ownerID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Package todo serves the per-user task endpoints. Every store call is
// scoped by the authenticated user id; a task owned by someone else is
// indistinguishable from a missing one.
package todo

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NalinDalal/ToDoist-be/internal/middleware"
	"github.com/NalinDalal/ToDoist-be/internal/models"
	"github.com/NalinDalal/ToDoist-be/internal/respond"
)

// TaskStore defines the interface for task persistence. Update and delete
// must match id and owner in one atomic predicate.
type TaskStore interface {
	CreateTask(ctx context.Context, ownerID int64, heading, body, status string) (*models.Task, error)
	ListTasksByOwner(ctx context.Context, ownerID int64) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, id, ownerID int64, status string) (*models.Task, error)
	DeleteTask(ctx context.Context, id, ownerID int64) error
}

// Handler holds task HTTP handlers.
type Handler struct {
	tasks TaskStore
}

func NewHandler(tasks TaskStore) *Handler {
	return &Handler{tasks: tasks}
}

// Create stores a new task owned by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		req.Status = models.DefaultTaskStatus
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.Heading, req.Body, req.Status)
	if err != nil {
		log.Printf("create todo: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusCreated, task)
}

// List returns the caller's tasks, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := h.tasks.ListTasksByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("list todos: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respond.JSON(w, http.StatusOK, tasks)
}

// UpdateStatus changes the status of one of the caller's tasks.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		respond.Error(w, http.StatusBadRequest, "Status is required")
		return
	}

	id, err := taskID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	task, err := h.tasks.UpdateTaskStatus(r.Context(), id, userID, req.Status)
	if errors.Is(err, models.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Todo not found")
		return
	}
	if err != nil {
		log.Printf("update todo %d: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

// Delete removes one of the caller's tasks.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := taskID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	err = h.tasks.DeleteTask(r.Context(), id, userID)
	if errors.Is(err, models.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Todo not found")
		return
	}
	if err != nil {
		log.Printf("delete todo %d: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.Message(w, "Todo deleted")
}

func taskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/NalinDalal/ToDoist-be/internal/models"
	"github.com/NalinDalal/ToDoist-be/internal/respond"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds the signup and signin HTTP handlers.
type Handler struct {
	users  UserStore
	hasher *Hasher
	tokens *TokenIssuer

	// compared against when the username is unknown, so both signin
	// failures do the same bcrypt work
	dummyHash string
}

func NewHandler(users UserStore, hasher *Hasher, tokens *TokenIssuer) *Handler {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		log.Printf("auth: dummy hash: %v", err)
	}
	return &Handler{users: users, hasher: hasher, tokens: tokens, dummyHash: dummy}
}

// Signup creates a new user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if errors.Is(err, ErrPasswordTooLong) {
		respond.Error(w, http.StatusBadRequest, "password is too long")
		return
	}
	if err != nil {
		log.Printf("signup: hash: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, hashed)
	if errors.Is(err, models.ErrUsernameTaken) || errors.Is(err, models.ErrConstraintViolation) {
		respond.Error(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		log.Printf("signup: create user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created",
		"userId":  user.ID,
	})
}

// Signin checks credentials and returns a session token.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		log.Printf("signin: lookup user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		h.hasher.Verify(req.Password, h.dummyHash)
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("signin: issue token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"token": token})
}

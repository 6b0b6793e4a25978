package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/NalinDalal/ToDoist-be/internal/auth"
	"github.com/NalinDalal/ToDoist-be/internal/middleware"
	"github.com/NalinDalal/ToDoist-be/internal/respond"
	"github.com/NalinDalal/ToDoist-be/internal/todo"
)

// dataStore is satisfied by every backend in internal/store.
type dataStore interface {
	auth.UserStore
	todo.TaskStore
}

type services struct {
	store       dataStore
	hasher      *auth.Hasher
	tokens      *auth.TokenIssuer
	corsOrigins []string
}

func newRouter(svc services) http.Handler {
	authHandler := auth.NewHandler(svc.store, svc.hasher, svc.tokens)
	todoHandler := todo.NewHandler(svc.store)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   svc.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes (public)
	r.Post("/signup", authHandler.Signup)
	r.Post("/signin", authHandler.Signin)

	// Todo routes (protected)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(svc.tokens))
		r.Post("/todo", todoHandler.Create)
		r.Get("/todos", todoHandler.List)
		r.Put("/todo/{id}", todoHandler.UpdateStatus)
		r.Delete("/todo/{id}", todoHandler.Delete)
	})

	return r
}

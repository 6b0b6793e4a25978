package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NalinDalal/ToDoist-be/internal/auth"
	"github.com/NalinDalal/ToDoist-be/internal/config"
	"github.com/NalinDalal/ToDoist-be/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	// ── Store ────────────────────────────────────────────────
	ds, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("%s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	// ── Router ───────────────────────────────────────────────
	handler := newRouter(services{
		store:       ds,
		hasher:      auth.NewHasher(cfg.BcryptCost),
		tokens:      auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL),
		corsOrigins: cfg.CORSOrigins,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s (%s store)", cfg.Port, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore connects the configured backend and prepares its schema or indexes.
func openStore(ctx context.Context, cfg *config.Config) (dataStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		pg := store.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return pg, pool.Close, nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		disconnect := func() { _ = client.Disconnect(context.Background()) }
		ms := store.NewMongoStore(client.Database(cfg.MongoDB))
		if err := ms.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, err
		}
		return ms, disconnect, nil

	case config.BackendRedis:
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		return store.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil

	case config.BackendMemory:
		log.Println("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.StoreBackend)
}

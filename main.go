package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"spicymarket/auth"
	"spicymarket/cart"
	"spicymarket/checkout"
	"spicymarket/config"
	"spicymarket/handlers"
	"spicymarket/i18n"
	"spicymarket/logging"
	"spicymarket/models"
	"spicymarket/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	catalog, err := i18n.Load(cfg.DefaultLanguage, logger)
	if err != nil {
		return err
	}

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	store, err := storage.NewStore(kv, logger)
	if err != nil {
		_ = kv.Close()
		return err
	}
	defer store.Close()
	logger.Info("storage ready", zap.String("driver", cfg.StoreDriver))

	if _, err := store.SeedProducts(ctx); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if cfg.SeedDemoUser {
		if err := seedDemoUser(ctx, store); err != nil {
			return err
		}
	}

	registry, closeRegistry, err := sessionRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRegistry()

	orderQueue := make(chan int64, 100)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		orderWorker(orderQueue, logger)
	}()

	router := handlers.NewRouter(handlers.Deps{
		Store:        store,
		Catalog:      catalog,
		Identity:     &auth.LocalProvider{Users: store},
		Sessions:     auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL, registry),
		Carts:        cart.NewRegistry(),
		Checkout:     checkout.NewService(store, logger, checkout.WithNotify(orderQueue)),
		LoginLimiter: handlers.NewRateLimiter(cfg.LoginRatePerSec, cfg.LoginBurst),
		Logger:       logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	// no handler can enqueue after Shutdown returns
	close(orderQueue)
	<-workerDone
	logger.Info("server exited")
	return nil
}

// orderWorker drains placed-order notifications until the queue is closed.
func orderWorker(queue <-chan int64, logger *zap.Logger) {
	for orderID := range queue {
		logger.Info("order received for fulfilment", zap.Int64("order_id", orderID))
	}
}

func seedDemoUser(ctx context.Context, store *storage.Store) error {
	hash, err := auth.HashPassword("1")
	if err != nil {
		return err
	}
	_, err = store.CreateUser(ctx, models.User{
		Username:     "1",
		PasswordHash: hash,
		Role:         models.RoleUser,
		DisplayName:  "Demo User",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil && !errors.Is(err, storage.ErrUserExists) {
		return fmt.Errorf("seed demo user: %w", err)
	}
	return nil
}

func sessionRegistry(ctx context.Context, cfg *config.Config) (auth.SessionRegistry, func(), error) {
	switch cfg.SessionStore {
	case "memory":
		return auth.NewMemoryRegistry(), func() {}, nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return auth.NewRedisRegistry(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

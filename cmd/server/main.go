package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sandbox-delivery-service/internal/adapters/repositories"
	"sandbox-delivery-service/internal/api"
	"sandbox-delivery-service/internal/config"
	"sandbox-delivery-service/internal/platform/db"
	"sandbox-delivery-service/internal/ports"
	"sandbox-delivery-service/internal/services"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It picks the delivery repository backend, builds the sandbox store and serves HTTP.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	store := services.NewSandboxStore(repo, time.Now)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server listening addr=:%s backend=%s", cfg.Port, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down timeout=%s", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openRepository returns the configured backend and a func releasing it.
func openRepository(ctx context.Context, cfg config.Config) (ports.DeliveryRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("open repository: ping redis %q: %w", cfg.RedisAddr, err)
		}
		return repositories.NewRedisDeliveryRepository(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		if err := repositories.InitSchema(conn); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		return repositories.NewPostgresDeliveryRepository(conn), func() { _ = conn.Close() }, nil

	default:
		// Records live for the lifetime of the process.
		return repositories.NewMemoryDeliveryRepository(), func() {}, nil
	}
}

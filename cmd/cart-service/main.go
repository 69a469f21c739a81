package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/storefront-cart/internal/catalog"
	"github.com/fjod/storefront-cart/internal/config"
	h "github.com/fjod/storefront-cart/internal/http"
	"github.com/fjod/storefront-cart/internal/inventory"
	"github.com/fjod/storefront-cart/internal/notify"
	"github.com/fjod/storefront-cart/internal/service"
	"github.com/fjod/storefront-cart/internal/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	var closers []io.Closer

	store, storeClosers, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	closers = append(closers, storeClosers...)
	log.Printf("Cart snapshots stored in %s", cfg.StorageBackend)

	lookup, lookupCloser, err := openInventory(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s inventory: %v", cfg.InventoryBackend, err)
	}
	if lookupCloser != nil {
		closers = append(closers, lookupCloser)
	}

	notifiers := notify.Multi{notify.Logger{}, notify.ContextInbox{}}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.NotificationsTopic, cfg.KafkaBrokers...)
		closers = append(closers, kafkaNotifier)
		notifiers = append(notifiers, kafkaNotifier)
		log.Printf("Publishing notifications to %s", cfg.NotificationsTopic)
	}

	sessions := service.NewSessions(cfg.CartStorageKey, lookup, store, notifiers)
	sessions.StartCleanup(time.Minute, cfg.SessionIdleTimeout)

	cartHandler := h.NewCartHandler(sessions, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.NewCartRouter(cartHandler, cfg.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Cart service listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down cart service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	sessions.Close()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Printf("close error: %v", err)
		}
	}
	log.Println("Cart service stopped")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, []io.Closer, error) {
	switch cfg.StorageBackend {
	case "mongo":
		db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		mongoStorage := storage.NewMongoStorage(db)
		if err := mongoStorage.CreateIndexes(ctx); err != nil {
			return nil, nil, err
		}
		disconnect := closerFunc(func() error { return db.Client().Disconnect(context.Background()) })
		return mongoStorage, []io.Closer{disconnect}, nil

	case "postgres":
		pg := cfg.Postgres
		pgStorage, err := storage.NewPostgresStorage(&storage.Credentials{
			Host:     pg.Host,
			Port:     pg.Port,
			User:     pg.User,
			Password: pg.Password,
			DBName:   pg.DBName,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := pgStorage.RunMigrations(); err != nil {
			pgStorage.Close()
			return nil, nil, err
		}
		return pgStorage, []io.Closer{pgStorage}, nil

	case "memory":
		return storage.NewMemoryStorage(), nil, nil

	default:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, err
		}
		return storage.NewRedisStorage(redisClient, cfg.CartSnapshotTTL), []io.Closer{redisClient}, nil
	}
}

func openInventory(cfg *config.Config) (inventory.Lookup, io.Closer, error) {
	if cfg.InventoryBackend == "sqlite" {
		repo, err := catalog.NewRepository(cfg.CatalogDBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, nil, err
		}
		log.Printf("Using local catalog at %s", cfg.CatalogDBPath)
		return repo, repo, nil
	}

	log.Printf("Using stock API at %s", cfg.InventoryURL)
	return inventory.NewClient(cfg.InventoryURL, cfg.InventoryTimeout), nil, nil
}

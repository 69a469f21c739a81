package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	StockHTTPPort string

	StorageBackend  string // redis, mongo, postgres or memory
	CartStorageKey  string
	CartSnapshotTTL time.Duration
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	Postgres        PostgresConfig

	InventoryBackend string // http or sqlite
	InventoryURL     string
	InventoryTimeout time.Duration
	CatalogDBPath    string

	KafkaBrokers       []string
	NotificationsTopic string

	SessionIdleTimeout time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env error: %v", err)
	}

	var errs []error
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return d
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid DB_PORT: %w", err))
	}

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		StockHTTPPort: getEnv("STOCK_HTTP_PORT", "3333"),

		StorageBackend:  getEnv("STORAGE_BACKEND", "redis"),
		CartStorageKey:  getEnv("CART_STORAGE_KEY", "@RocketShoes:cart"),
		CartSnapshotTTL: duration("CART_SNAPSHOT_TTL", "0s"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "cartdb"),
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ecommerce"),
		},

		InventoryBackend: getEnv("INVENTORY_BACKEND", "http"),
		InventoryURL:     getEnv("INVENTORY_URL", "http://localhost:3333"),
		InventoryTimeout: duration("INVENTORY_TIMEOUT", "5s"),
		CatalogDBPath:    getEnv("CATALOG_DB_PATH", "./catalog.db"),

		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		NotificationsTopic: getEnv("NOTIFICATIONS_TOPIC", "cart-notifications"),

		SessionIdleTimeout: duration("SESSION_IDLE_TIMEOUT", "30m"),
		RequestTimeout:     duration("REQUEST_TIMEOUT", "30s"),
		ShutdownTimeout:    duration("SHUTDOWN_TIMEOUT", "10s"),
	}

	switch cfg.StorageBackend {
	case "redis", "mongo", "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend))
	}
	switch cfg.InventoryBackend {
	case "http", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown INVENTORY_BACKEND %q", cfg.InventoryBackend))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Cache    CacheConfig
	Cart     CartConfig
	Stats    StatsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string
}

// CacheConfig holds caching TTL configuration
type CacheConfig struct {
	CondolencesListTTL time.Duration
}

// CartConfig holds shopping cart session configuration
type CartConfig struct {
	// BlobStore selects the snapshot backend: "redis" or "memory"
	BlobStore      string
	SaveTimeout    time.Duration
	LoadTimeout    time.Duration
	MaxQuantity    int
	SessionIdleTTL time.Duration
}

// StatsConfig holds aggregate statistics configuration
type StatsConfig struct {
	QueryTimeout time.Duration
	CacheTTL     time.Duration
}

// Load reads configuration from environment variables and returns a Config struct
func Load() (*Config, error) {
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "memorials")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_AUTO_MIGRATE", false)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("NATS_URL", "nats://localhost:4222")

	viper.SetDefault("CACHE_TTL_CONDOLENCES_LIST", "120s")

	viper.SetDefault("CART_BLOB_STORE", "redis")
	viper.SetDefault("CART_SAVE_TIMEOUT", "3s")
	viper.SetDefault("CART_LOAD_TIMEOUT", "3s")
	viper.SetDefault("CART_MAX_QUANTITY", 99)
	viper.SetDefault("CART_SESSION_IDLE_TTL", "30m")

	viper.SetDefault("STATS_QUERY_TIMEOUT", "5s")
	viper.SetDefault("STATS_CACHE_TTL", "60s")

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT",
		"SERVER_SHUTDOWN_TIMEOUT",
		"DB_CONN_MAX_LIFETIME",
		"CACHE_TTL_CONDOLENCES_LIST",
		"CART_SAVE_TIMEOUT",
		"CART_LOAD_TIMEOUT",
		"CART_SESSION_IDLE_TTL",
		"STATS_QUERY_TIMEOUT",
		"STATS_CACHE_TTL",
	} {
		d, err := time.ParseDuration(viper.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		durations[key] = d
	}

	maxQuantity := viper.GetInt("CART_MAX_QUANTITY")
	if maxQuantity < 1 {
		return nil, fmt.Errorf("invalid CART_MAX_QUANTITY: must be at least 1, got %d", maxQuantity)
	}

	blobStore := strings.ToLower(viper.GetString("CART_BLOB_STORE"))
	if blobStore != "redis" && blobStore != "memory" {
		return nil, fmt.Errorf("invalid CART_BLOB_STORE: %q", blobStore)
	}

	allowedOriginsStr := viper.GetString("CORS_ALLOWED_ORIGINS")
	allowedOrigins := strings.Split(allowedOriginsStr, ",")
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	config := &Config{
		Env: viper.GetString("ENV"),
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			ReadTimeout:     durations["SERVER_READ_TIMEOUT"],
			WriteTimeout:    durations["SERVER_WRITE_TIMEOUT"],
			ShutdownTimeout: durations["SERVER_SHUTDOWN_TIMEOUT"],
			AllowedOrigins:  allowedOrigins,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetString("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
			AutoMigrate:     viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL: viper.GetString("NATS_URL"),
		},
		Cache: CacheConfig{
			CondolencesListTTL: durations["CACHE_TTL_CONDOLENCES_LIST"],
		},
		Cart: CartConfig{
			BlobStore:      blobStore,
			SaveTimeout:    durations["CART_SAVE_TIMEOUT"],
			LoadTimeout:    durations["CART_LOAD_TIMEOUT"],
			MaxQuantity:    maxQuantity,
			SessionIdleTTL: durations["CART_SESSION_IDLE_TTL"],
		},
		Stats: StatsConfig{
			QueryTimeout: durations["STATS_QUERY_TIMEOUT"],
			CacheTTL:     durations["STATS_CACHE_TTL"],
		},
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	Port        string
	GinMode     string
	DBDriver    string
	DBDSN       string
	RedisAddr   string
	GeocoderURL string
	GeocoderKey string
	CORSOrigin  string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present) and resolves the runtime configuration
// from the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getenv("PORT", "8080"),
		GinMode:     getenv("GIN_MODE", "debug"),
		DBDriver:    getenv("DB_DRIVER", "sqlite"),
		DBDSN:       getenv("DB_DSN", "ryadom.db"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		GeocoderURL: getenv("GEOCODER_URL", "https://suggest.geo.example.com"),
		GeocoderKey: os.Getenv("GEOCODER_KEY"),
		CORSOrigin:  getenv("CORS_ORIGIN", "*"),
	}
}

// InitDB opens the configured database. MySQL in production, sqlite for
// local runs and tests.
func InitDB(cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// InitRedis returns a client when REDIS_ADDR is set, nil otherwise.
// Callers treat a nil client as "cache disabled".
func InitRedis(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Store  StoreConfig
	App    AppConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	// AllowedOrigins comes from FRONTEND_URL, comma separated.
	AllowedOrigins []string
	AllowNoOrigin  bool
}

type StoreConfig struct {
	Driver         string
	ConnectTimeout time.Duration
	Mongo          MongoConfig
	Postgres       PostgresConfig
	Redis          RedisConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

// PostgresConfig takes DB_DSN as is, or builds one from the DB_* parts.
type PostgresConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int
}

func (p PostgresConfig) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}
	if p.Host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Name,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "4000"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("FRONTEND_URL", "")),
			AllowNoOrigin:  getEnvAsBool("CORS_ALLOW_NO_ORIGIN", false),
		},
		Store: StoreConfig{
			Driver:         strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			Mongo: MongoConfig{
				URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database: getEnv("MONGO_DB", "proyectos"),
			},
			Postgres: PostgresConfig{
				DSN:      getEnv("DB_DSN", ""),
				Host:     getEnv("DB_HOST", ""),
				Port:     getEnvAsInt("DB_PORT", 5432),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", ""),
				Name:     getEnv("DB_NAME", "proyectos"),
				MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			},
			Redis: RedisConfig{
				Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
			},
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "proyectos-backend"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", ""),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case DriverPostgres:
		if c.Store.Postgres.ConnString() == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required when STORE_DRIVER=postgres")
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of mongo, postgres, redis (got %q)", c.Store.Driver)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

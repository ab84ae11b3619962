package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "FRONTEND_URL", "CORS_ALLOW_NO_ORIGIN", "MONGO_URI", "MONGO_DB", "APP_ENV"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.Mongo.URI)
	assert.Equal(t, "proyectos", cfg.Store.Mongo.Database)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.CORS.AllowNoOrigin)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FRONTEND_URL", "http://localhost:5173, https://app.example.com")
	t.Setenv("CORS_ALLOW_NO_ORIGIN", "true")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.CORS.AllowNoOrigin)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Store.Postgres.MaxConns)
	assert.Equal(t, 10*time.Second, cfg.Store.ConnectTimeout)
}

func TestPostgresConfig_ConnString(t *testing.T) {
	assert.Empty(t, PostgresConfig{}.ConnString())
	assert.Equal(t, "postgres://u@db/x", PostgresConfig{DSN: "postgres://u@db/x", Host: "ignored"}.ConnString())
	assert.Equal(t,
		"host=db port=5433 user=app password=pw dbname=proyectos sslmode=disable",
		PostgresConfig{Host: "db", Port: 5433, User: "app", Password: "pw", Name: "proyectos"}.ConnString())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid mongo", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "PORT"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, "STORE_DRIVER"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }, "DB_DSN"},
		{"postgres from parts", func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.Postgres.Host = "db"
		}, ""},
		{"redis without addr", func(c *Config) { c.Store.Driver = DriverRedis; c.Store.Redis.Addr = "" }, "REDIS_ADDR"},
		{"mongo without uri", func(c *Config) { c.Store.Mongo.URI = "" }, "MONGO_URI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{Port: "4000"},
				Store: StoreConfig{
					Driver: DriverMongo,
					Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: "proyectos"},
				},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/proyectos-app/proyectos-backend/config"
	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
	"github.com/proyectos-app/proyectos-backend/internal/storage/mongostore"
	"github.com/proyectos-app/proyectos-backend/internal/storage/pgstore"
	"github.com/proyectos-app/proyectos-backend/internal/storage/redisstore"
)

// OpenStore connects the document store selected by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (docstore.Store, error) {
	connectTO := cfg.ConnectTimeout
	if connectTO == 0 {
		connectTO = 10 * time.Second
	}

	switch cfg.Driver {
	case config.DriverMongo:
		return mongostore.Open(ctx, mongostore.Options{
			URI:       cfg.Mongo.URI,
			Database:  cfg.Mongo.Database,
			ConnectTO: connectTO,
		})
	case config.DriverPostgres:
		return pgstore.Open(ctx, pgstore.Options{
			DSN:       cfg.Postgres.ConnString(),
			MaxConns:  int32(cfg.Postgres.MaxConns),
			ConnectTO: connectTO,
		})
	case config.DriverRedis:
		return redisstore.Open(ctx, redisstore.Options{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			ConnectTO: connectTO,
		})
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

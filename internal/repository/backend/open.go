// Package backend opens the store selected by DB_DRIVER.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/repository"
	"github.com/noah-isme/centerkech-api/internal/repository/mongostore"
	"github.com/noah-isme/centerkech-api/pkg/config"
	"github.com/noah-isme/centerkech-api/pkg/database"
)

// Open connects to the configured backend and returns its repositories. The caller
// owns the handle and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMongoDB:
		store, err := mongostore.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))
		return store.Repositories(), nil
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		logger.Info("connected to postgres", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return repository.NewPostgres(db), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
	}
}

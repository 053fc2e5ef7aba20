package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/octobees/contactdesk/internal/config"
	"github.com/octobees/contactdesk/internal/database"
	"github.com/octobees/contactdesk/internal/repository"
)

// openStore connects to the database named by DATABASE_URL, optionally applies
// migrations and returns the matching repository with its close function.
func openStore(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) (repository.ContactsRepository, func(), error) {
	driver, dsn, err := database.ParseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	var applied []string
	switch driver {
	case database.DriverPostgres:
		pool, err := database.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if migrate {
			if applied, err = database.MigratePostgres(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		logMigrations(logger, driver, applied)
		return repository.NewPGXContactsRepository(pool), pool.Close, nil
	default:
		db, err := database.OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if migrate {
			if applied, err = database.MigrateSQLite(ctx, db); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		logMigrations(logger, driver, applied)
		return repository.NewSQLContactsRepository(db), func() { db.Close() }, nil
	}
}

func logMigrations(logger *zap.Logger, driver database.Driver, applied []string) {
	logger.Info("database ready",
		zap.String("driver", string(driver)),
		zap.Strings("applied_migrations", applied),
	)
}

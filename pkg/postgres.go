package database

import (
	"context"
	"fmt"
	"time"

	"feedyourmind-app/internal/models/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// POSTGRES_DB: feedyourmind
// POSTGRES_USER: feedyourmind-dev
// ports:
// - "5432:5432"

func NewPostgres(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*sqlx.DB, error) {
	db, err := connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info("connected to PostgreSQL",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("db", cfg.Database.Name),
	)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info("closing PostgreSQL connection")
			return db.Close()
		},
	})
	return db, nil
}

func connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

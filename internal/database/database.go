package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"clinic-portal/internal/config"
)

// Database wraps one of the two SQL connections the portal holds
type Database struct {
	DB    *sql.DB
	Label string
}

// New opens and pings a Postgres connection for cfg
func New(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Label, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Label, err)
	}

	return &Database{DB: db, Label: cfg.Label}, nil
}

// OpenOptional opens cfg when it is configured and returns nil otherwise.
// The master store is optional at boot; callers surface its absence per request.
func OpenOptional(cfg *config.DatabaseConfig) (*Database, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	return New(cfg)
}

// DSN builds the lib/pq connection string for cfg
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// Close closes the database connection
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// SQL returns the underlying handle, or nil for an unconfigured database
func (d *Database) SQL() *sql.DB {
	if d == nil {
		return nil
	}
	return d.DB
}

// HealthCheck pings the database within a short deadline
func (d *Database) HealthCheck(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return fmt.Errorf("database not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s database health check failed: %w", d.Label, err)
	}

	return nil
}

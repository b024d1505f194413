package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Migration is one versioned schema change for the local store
type Migration struct {
	Version  string
	Title    string
	UpSQL    string
	DownSQL  string
	Checksum string
}

// MigrationExecutor applies *.up.sql files in version order and records them
// in schema_migrations together with a content checksum.
type MigrationExecutor struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewMigrationExecutor creates a new migration executor
func NewMigrationExecutor(db *sql.DB, logger *slog.Logger) *MigrationExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationExecutor{db: db, logger: logger}
}

// RunMigrations executes all pending migrations found in migrationsPath
func (m *MigrationExecutor) RunMigrations(ctx context.Context, migrationsPath string) (int, error) {
	if err := m.createMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := ReadMigrationFiles(migrationsPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}

	if err := m.validateMigrationChecksums(ctx, migrations); err != nil {
		return 0, fmt.Errorf("migration validation failed: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	count := 0
	for _, migration := range migrations {
		if slices.Contains(applied, migration.Version) {
			continue
		}
		if err := m.executeMigration(ctx, migration); err != nil {
			return count, fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
		m.logger.Info("Applied migration", "version", migration.Version, "title", migration.Title)
		count++
	}

	return count, nil
}

func (m *MigrationExecutor) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			title VARCHAR(500),
			checksum VARCHAR(64),
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// ReadMigrationFiles loads {version}_{name}.up.sql / .down.sql pairs from dir.
// Versions without an up file are skipped.
func ReadMigrationFiles(dir string) ([]Migration, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]*Migration)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		version, title, isUp, ok := parseMigrationFilename(file.Name())
		if !ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, err
		}

		mig := byVersion[version]
		if mig == nil {
			mig = &Migration{Version: version, Title: title}
			byVersion[version] = mig
		}
		if isUp {
			mig.UpSQL = string(content)
			mig.Checksum = calculateChecksum(mig.UpSQL)
		} else {
			mig.DownSQL = string(content)
		}
	}

	var migrations []Migration
	for _, mig := range byVersion {
		if mig.UpSQL != "" {
			migrations = append(migrations, *mig)
		}
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func parseMigrationFilename(filename string) (version, title string, isUp, ok bool) {
	var base string
	switch {
	case strings.HasSuffix(filename, ".up.sql"):
		base, isUp = strings.TrimSuffix(filename, ".up.sql"), true
	case strings.HasSuffix(filename, ".down.sql"):
		base = strings.TrimSuffix(filename, ".down.sql")
	default:
		return "", "", false, false
	}

	version, name, found := strings.Cut(base, "_")
	if !found || version == "" {
		return "", "", false, false
	}
	return version, strings.ReplaceAll(name, "_", " "), isUp, true
}

func (m *MigrationExecutor) appliedVersions(ctx context.Context) ([]string, error) {
	query := `SELECT version FROM schema_migrations ORDER BY version`
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}

	return versions, rows.Err()
}

func (m *MigrationExecutor) executeMigration(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			m.logger.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, migration.UpSQL); err != nil {
		return fmt.Errorf("migration SQL failed: %w", err)
	}

	query := `INSERT INTO schema_migrations (version, title, checksum) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, migration.Version, migration.Title, migration.Checksum); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// validateMigrationChecksums refuses to continue when an applied file was edited
func (m *MigrationExecutor) validateMigrationChecksums(ctx context.Context, migrations []Migration) error {
	query := `SELECT version, checksum FROM schema_migrations WHERE checksum IS NOT NULL`
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return err
		}
		applied[version] = checksum
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var mismatches []string
	for _, migration := range migrations {
		if checksum, ok := applied[migration.Version]; ok && checksum != migration.Checksum {
			mismatches = append(mismatches, fmt.Sprintf("%s (%s)", migration.Version, migration.Title))
		}
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("applied migrations have been modified: %s", strings.Join(mismatches, ", "))
	}

	return nil
}

func calculateChecksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/vault"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/lib/pq"

	"clinic-portal/internal/database"
	"clinic-portal/internal/logger"
)

// VaultRootToken is the dev-mode root token of the Vault test container
const VaultRootToken = "test-token"

// PostgresContainer holds a started Postgres container. The local migrations
// and the master tables live side by side in its public schema.
type PostgresContainer struct {
	Container  *postgres.PostgresContainer
	DB         *sql.DB
	ConnString string
}

// VaultContainer holds a started dev-mode Vault container
type VaultContainer struct {
	Container *vault.VaultContainer
	Addr      string
	Token     string
}

// SetupPostgres starts Postgres, applies the local migrations and creates the
// master tables. Integration tests are skipped under -short.
func SetupPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18",
		postgres.WithDatabase("portal_test"),
		postgres.WithUsername("portal_test"),
		postgres.WithPassword("portal_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	pc := &PostgresContainer{Container: container}
	t.Cleanup(func() { pc.Cleanup(t) })

	pc.ConnString, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pc.DB, err = sql.Open("postgres", pc.ConnString)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := pc.DB.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	executor := database.NewMigrationExecutor(pc.DB, logger.Component("migrations"))
	if _, err := executor.RunMigrations(ctx, migrationsDir(t)); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if _, err := pc.DB.ExecContext(ctx, MasterSchemaSQL); err != nil {
		t.Fatalf("Failed to create master tables: %v", err)
	}

	return pc
}

// Cleanup closes the connection and terminates the container
func (pc *PostgresContainer) Cleanup(t *testing.T) {
	t.Helper()
	if pc.DB != nil {
		pc.DB.Close()
		pc.DB = nil
	}
	if pc.Container != nil {
		if err := pc.Container.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate PostgreSQL container: %v", err)
		}
		pc.Container = nil
	}
}

// SetupVault starts a dev-mode Vault with the KV v2 engine at "secret"
func SetupVault(t *testing.T) *VaultContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := vault.Run(ctx,
		"hashicorp/vault:1.15",
		vault.WithToken(VaultRootToken),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Vault server started!").
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start Vault container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate Vault container: %v", err)
		}
	})

	addr, err := container.HttpHostAddress(ctx)
	if err != nil {
		t.Fatalf("Failed to get Vault address: %v", err)
	}

	if !strings.HasPrefix(addr, "http") {
		addr = "http://" + addr
	}

	return &VaultContainer{
		Container: container,
		Addr:      addr,
		Token:     VaultRootToken,
	}
}

// migrationsDir walks up from the test package until it finds migrations/
func migrationsDir(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	for range 5 {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	t.Fatalf("migrations directory not found")
	return ""
}

// MustExec runs a fixture statement and fails the test on error
func MustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("fixture statement failed: %v\n%s", err, query)
	}
}

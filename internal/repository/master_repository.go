package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lib/pq"

	"clinic-portal/internal/config"
)

var (
	ErrMasterNotConfigured  = errors.New("master database is not configured")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrFieldRepNotFound     = errors.New("field rep not found")
	ErrFieldRepLinkNotFound = errors.New("field rep link not found")
)

// LookupError carries the reason a master read degraded to "absent".
// Callers treat it like not-found but can log Op and the cause.
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("master lookup %s failed: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// MasterRepository is the gateway to the external system-of-record.
// Every table and column name comes from the injected schema.
type MasterRepository struct {
	db     *sql.DB
	schema config.MasterSchema
	logger *slog.Logger

	columnsMu sync.Mutex
	columns   map[string][]string
}

// NewMasterRepository creates a master accessor. A nil db means the master
// alias is absent from configuration.
func NewMasterRepository(db *sql.DB, schema config.MasterSchema, logger *slog.Logger) (*MasterRepository, error) {
	if db == nil {
		return nil, ErrMasterNotConfigured
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid master schema: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MasterRepository{
		db:      db,
		schema:  schema,
		logger:  logger,
		columns: make(map[string][]string),
	}, nil
}

// qn quotes a configured identifier
func qn(name string) string {
	return pq.QuoteIdentifier(name)
}

// qc quotes alias.column
func qc(alias, name string) string {
	return alias + "." + pq.QuoteIdentifier(name)
}

// lookupFailed logs a read-path failure and returns the retained reason
func (r *MasterRepository) lookupFailed(op string, err error, attrs ...any) error {
	r.logger.Warn("Master lookup failed", append([]any{"op", op, "error", err}, attrs...)...)
	return &LookupError{Op: op, Err: err}
}

// TableColumns lists the columns of table in the current schema. Results are
// cached per accessor; failures return nil and are not cached.
func (r *MasterRepository) TableColumns(ctx context.Context, table string) []string {
	r.columnsMu.Lock()
	cached, ok := r.columns[table]
	r.columnsMu.Unlock()
	if ok {
		return cached
	}

	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`
	rows, err := r.db.QueryContext(ctx, query, table)
	if err != nil {
		r.logger.Warn("Column introspection failed", "table", table, "error", err)
		return nil
	}
	defer rows.Close()

	cols := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			r.logger.Warn("Column introspection failed", "table", table, "error", err)
			return nil
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn("Column introspection failed", "table", table, "error", err)
		return nil
	}

	r.columnsMu.Lock()
	r.columns[table] = cols
	r.columnsMu.Unlock()
	return cols
}

// hasColumn reports whether table exposes column, case-insensitively
func (r *MasterRepository) hasColumn(ctx context.Context, table, column string) bool {
	if column == "" {
		return false
	}
	for _, c := range r.TableColumns(ctx, table) {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

// Ping checks connectivity to the master store
func (r *MasterRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func pqStringArray(values []string) any {
	return pq.StringArray(values)
}

func nullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return strings.TrimSpace(ns.String)
}

// placeholders returns "$start, $start+1, ..." for n values
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

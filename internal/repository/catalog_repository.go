package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clinic-portal/internal/models"
)

// CatalogRepository handles database operations for video clusters
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListPublished retrieves published clusters in display order
func (r *CatalogRepository) ListPublished(ctx context.Context) ([]models.VideoCluster, error) {
	query := `
		SELECT id, code, display_name, is_published, sort_order
		FROM video_clusters
		WHERE is_published = TRUE
		ORDER BY sort_order ASC, display_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list video clusters: %w", err)
	}
	defer rows.Close()

	clusters := []models.VideoCluster{}
	for rows.Next() {
		var cluster models.VideoCluster
		err := rows.Scan(
			&cluster.ID,
			&cluster.Code,
			&cluster.DisplayName,
			&cluster.IsPublished,
			&cluster.SortOrder,
		)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, cluster)
	}

	return clusters, rows.Err()
}

// GetByCode retrieves a cluster by its code, or nil
func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*models.VideoCluster, error) {
	query := `
		SELECT id, code, display_name, is_published, sort_order
		FROM video_clusters
		WHERE code = $1
	`

	cluster := &models.VideoCluster{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&cluster.ID,
		&cluster.Code,
		&cluster.DisplayName,
		&cluster.IsPublished,
		&cluster.SortOrder,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video cluster: %w", err)
	}

	return cluster, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-portal/internal/cache"
	"clinic-portal/internal/models"
)

const catalogCacheKey = "published"

// CatalogStore reads the video clusters
type CatalogStore interface {
	ListPublished(ctx context.Context) ([]models.VideoCluster, error)
	GetByCode(ctx context.Context, code string) (*models.VideoCluster, error)
}

// CatalogService serves the published catalog through the read-through cache
type CatalogService struct {
	catalogRepo CatalogStore
	cache       *cache.JSONCache
	ttl         time.Duration
	now         func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo CatalogStore, jsonCache *cache.JSONCache, ttl time.Duration) *CatalogService {
	if jsonCache == nil {
		jsonCache = cache.NewJSONCache(nil, "", nil)
	}
	return &CatalogService{
		catalogRepo: catalogRepo,
		cache:       jsonCache,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Published returns the cached catalog, building it on a miss
func (s *CatalogService) Published(ctx context.Context) (*models.Catalog, error) {
	var catalog models.Catalog
	err := s.cache.GetOrLoad(ctx, catalogCacheKey, s.ttl, &catalog, func(ctx context.Context) (any, error) {
		clusters, err := s.catalogRepo.ListPublished(ctx)
		if err != nil {
			return nil, err
		}
		return models.Catalog{Clusters: clusters, GeneratedAt: s.now().UTC()}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if catalog.Clusters == nil {
		catalog.Clusters = []models.VideoCluster{}
	}
	return &catalog, nil
}

// Cluster returns one published cluster by code. Unpublished clusters are
// reported as not found.
func (s *CatalogService) Cluster(ctx context.Context, code string) (*models.VideoCluster, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrClusterNotFound
	}
	cluster, err := s.catalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load video cluster: %w", err)
	}
	if cluster == nil || !cluster.IsPublished {
		return nil, ErrClusterNotFound
	}
	return cluster, nil
}

// Invalidate drops the cached catalog so the next read rebuilds it
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, catalogCacheKey)
}

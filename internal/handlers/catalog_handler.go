package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"clinic-portal/internal/models"
	"clinic-portal/internal/service"
)

// CatalogReader serves the published catalog
type CatalogReader interface {
	Published(ctx context.Context) (*models.Catalog, error)
	Cluster(ctx context.Context, code string) (*models.VideoCluster, error)
}

// CatalogHandler handles video catalog requests
type CatalogHandler struct {
	catalog CatalogReader
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogReader, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// GetCatalog returns the published video clusters
// @Summary Get published catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.Catalog
// @Failure 500 {object} map[string]string "Catalog unavailable"
// @Router /api/v1/catalog [get]
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.Published(r.Context())
	if err != nil {
		h.logger.Error("Catalog load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	respondWithJSON(w, http.StatusOK, catalog)
}

// GetCluster returns one published video cluster
// @Summary Get video cluster
// @Tags Catalog
// @Produce json
// @Param code path string true "Cluster code"
// @Success 200 {object} models.VideoCluster
// @Failure 404 {object} map[string]string "Video cluster not found"
// @Router /api/v1/catalog/{code} [get]
func (h *CatalogHandler) GetCluster(w http.ResponseWriter, r *http.Request) {
	cluster, err := h.catalog.Cluster(r.Context(), r.PathValue("code"))
	if errors.Is(err, service.ErrClusterNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgClusterNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Cluster load failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, cluster)
}

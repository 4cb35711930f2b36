package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/http/response"
	apperrors "github.com/fapdigital/editais-backend/internal/pkg/errors"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"github.com/fapdigital/editais-backend/internal/services"
)

// PublicEditaisHandler is the unauthenticated read surface. Everything it
// returns comes through the versioned cache; drafts never show up here.
type PublicEditaisHandler struct {
	log     *logger.Logger
	catalog services.PublicCatalogService
}

func NewPublicEditaisHandler(log *logger.Logger, catalog services.PublicCatalogService) *PublicEditaisHandler {
	return &PublicEditaisHandler{
		log:     log.With("handler", "PublicEditaisHandler"),
		catalog: catalog,
	}
}

func (h *PublicEditaisHandler) List(c *gin.Context) {
	req := services.ListRequest{
		Category: strings.TrimSpace(c.Query("category")),
		Page:     intQuery(c, "page", 1),
		PerPage:  intQuery(c, "per_page", 20),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := types.Status(raw)
		if !st.Valid() {
			response.RespondError(c, http.StatusBadRequest, "invalid_status", errors.New("unknown status "+raw))
			return
		}
		req.Status = st
	}

	page, err := h.catalog.List(c.Request.Context(), req)
	if err != nil {
		h.log.Error("List failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, page)
}

func (h *PublicEditaisHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit := intQuery(c, "limit", 20)

	items, err := h.catalog.Search(c.Request.Context(), q, limit)
	if err != nil {
		h.log.Error("Search failed", "error", err, "query", q)
		response.RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}
	if items == nil {
		items = []*types.Edital{}
	}
	response.RespondOK(c, gin.H{"items": items, "query": q})
}

func (h *PublicEditaisHandler) GetBySlug(c *gin.Context) {
	slugValue := strings.TrimSpace(c.Param("slug"))
	if slugValue == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_slug", errors.New("slug is required"))
		return
	}

	rec, err := h.catalog.GetBySlug(c.Request.Context(), slugValue)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.log.Error("GetBySlug failed", "error", err, "slug", slugValue)
		}
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/commute-results/internal/http/middleware"
	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/service"
)

type ResultsService interface {
	Recalculate(ctx context.Context, competitionID uuid.UUID) (*model.RecalculationReport, error)
	RecalculateOpen(ctx context.Context) ([]service.BatchItem, error)
	Results(ctx context.Context, competitionID uuid.UUID) ([]model.RankedResult, error)
}

type Handler struct {
	results ResultsService
	log     zerolog.Logger
}

func NewHandler(results ResultsService, log zerolog.Logger) *Handler {
	return &Handler{results: results, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/competitions/:id/recalculate", h.recalculate)
	protected.POST("/campaigns/recalculate", h.recalculateOpen)
	protected.GET("/competitions/:id/results", h.listResults)
}

func (h *Handler) recalculate(c *gin.Context) {
	if !h.requireOperator(c) {
		return
	}

	competitionID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid competition id"})
		return
	}

	report, err := h.results.Recalculate(c.Request.Context(), competitionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) recalculateOpen(c *gin.Context) {
	if !h.requireOperator(c) {
		return
	}

	items, err := h.results.RecalculateOpen(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"competitions": items})
}

func (h *Handler) listResults(c *gin.Context) {
	competitionID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid competition id"})
		return
	}

	results, err := h.results.Results(c.Request.Context(), competitionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) requireOperator(c *gin.Context) bool {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return false
	}
	if !principal.IsOperator() {
		h.handleError(c, service.ErrPermissionDenied)
		return false
	}
	return true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidConfiguration):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("competition results request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

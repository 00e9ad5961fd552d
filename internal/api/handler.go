package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/service"
)

// Handler handles the course-materials API requests
type Handler struct {
	queryService   *service.QueryService
	ingestService  *service.IngestService
	catalogService *service.CatalogService
}

// NewHandler creates a new API handler
func NewHandler(
	queryService *service.QueryService,
	ingestService *service.IngestService,
	catalogService *service.CatalogService,
) *Handler {
	return &Handler{
		queryService:   queryService,
		ingestService:  ingestService,
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/query", h.Query)
	r.GET("/courses", h.GetCourseStats)
	r.POST("/documents", h.AddDocument)
}

// Query answers a question about course materials, optionally continuing
// an existing session
func (h *Handler) Query(c *gin.Context) {
	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.queryService.Query(c.Request.Context(), req.Query, req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCourseStats returns the catalog summary
func (h *Handler) GetCourseStats(c *gin.Context) {
	stats, err := h.catalogService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// AddDocument ingests a single course document supplied as raw text
func (h *Handler) AddDocument(c *gin.Context) {
	var req domain.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, chunkCount, err := h.ingestService.AddCourseDocument(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedDocument), errors.Is(err, domain.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrDuplicateCourse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, &domain.AddDocumentResponse{
		CourseTitle: course.Title,
		ChunkCount:  chunkCount,
	})
}

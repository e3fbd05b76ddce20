package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"budget-backend/internal/shared/server/middleware"
	"budget-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the report generator.
type Handler struct {
	Gen *Generator
}

// NewHandler constructs a Handler.
func NewHandler(gen *Generator) *Handler {
	return &Handler{Gen: gen}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.generate)
	rg.GET("/reports/types", h.types)
}

type generateRequest struct {
	FileID     string `json:"fileId"`
	ReportType string `json:"reportType"`
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.FileID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileId is required", nil)
		return
	}
	c.Set("fileId", req.FileID)
	c.Set("reportType", req.ReportType)

	report, err := h.Gen.Generate(c.Request.Context(), userID, req.FileID, req.ReportType)
	if err != nil {
		var unknownType *UnknownTypeError
		switch {
		case errors.As(err, &unknownType):
			respond.Error(c, http.StatusBadRequest, "unknown_report_type", unknownType.Error(), map[string]any{
				"supported": Types(),
			})
		case errors.Is(err, ErrFileNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		case errors.Is(err, ErrNoData):
			respond.Error(c, http.StatusUnprocessableEntity, "no_data", "file has no data rows", nil)
		case errors.Is(err, ErrBusy):
			respond.Error(c, http.StatusConflict, "report_in_progress", "a report is already being generated for this session", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate report", nil)
		}
		return
	}

	respond.OK(c, report)
}

func (h *Handler) types(c *gin.Context) {
	out := make([]gin.H, 0, len(titles))
	for _, t := range Types() {
		out = append(out, gin.H{"report_type": t, "title": t.Title()})
	}
	respond.OK(c, gin.H{"types": out})
}

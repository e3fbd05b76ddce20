package files

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"budget-backend/internal/analytics"
	"budget-backend/internal/chat"
	"budget-backend/internal/ingest"
	"budget-backend/internal/shared/server/middleware"
	"budget-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the files service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches file routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files", h.upload)
	rg.GET("/files", h.list)
	rg.GET("/files/:id", h.get)
}

type uploadResponse struct {
	File    File         `json:"file"`
	Message chat.Message `json:"message"`
	Content string       `json:"content"`
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the maximum upload size", map[string]any{
			"max_bytes": h.MaxUploadBytes,
		})
		return
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".csv" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only CSV files are supported", nil)
		return
	}

	src, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read uploaded file", nil)
		return
	}
	defer src.Close()

	file, msg, err := h.Svc.Upload(c.Request.Context(), userID, filepath.Base(fh.Filename), src)
	if err != nil {
		var schemaErr *analytics.SchemaError
		switch {
		case errors.Is(err, ingest.ErrEmptyFile):
			respond.Error(c, http.StatusBadRequest, "validation_error", "uploaded file is empty", nil)
		case errors.As(err, &schemaErr):
			respond.Error(c, http.StatusUnprocessableEntity, "schema_error", schemaErr.Reason, nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process upload", nil)
		}
		return
	}

	respond.Created(c, uploadResponse{File: file, Message: msg, Content: msg.Content})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, offset := 50, 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be a non-negative integer", nil)
			return
		}
		offset = parsed
	}

	out, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list files", nil)
		return
	}
	if out == nil {
		out = []File{}
	}
	respond.OK(c, gin.H{"files": out})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	fileID := c.Param("id")
	c.Set("fileId", fileID)

	file, err := h.Svc.Get(c.Request.Context(), userID, fileID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load file", nil)
		return
	}
	respond.OK(c, file)
}

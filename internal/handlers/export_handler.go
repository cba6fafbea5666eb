package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/response"
	"github.com/gravadigital/huddle-api/internal/services"
)

// Exporter writes an event snapshot to object storage
type Exporter interface {
	Export(ctx context.Context, token string) (*services.Export, error)
}

type ExportHandler struct {
	exporter Exporter
	log      *log.Logger
}

// NewExportHandler creates the handler; a nil exporter answers 503
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		log:      logger.Handler("export"),
	}
}

// ExportEvent handles POST /api/events/:token/export
func (h *ExportHandler) ExportEvent(c *gin.Context) {
	if h.exporter == nil {
		response.ServiceUnavailableError(c, "Export storage is not configured")
		return
	}

	out, err := h.exporter.Export(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.log.Error("Failed to export event", "error", err)
		response.FromError(c, err, "Failed to export event")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"url":        out.URL,
		"key":        out.Key,
		"expires_at": out.ExpiresAt,
	})
}

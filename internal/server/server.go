// Package server exposes the club-management HTTP API over gin: template
// upload and analysis, mapping editing, match-sheet generation, artifact
// download, and the roster CRUD screens' backing endpoints.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubsuite/matchsheet/internal/blob"
	"github.com/clubsuite/matchsheet/internal/mapping"
	"github.com/clubsuite/matchsheet/internal/pdf"
	"github.com/clubsuite/matchsheet/internal/records"
	"github.com/clubsuite/matchsheet/internal/sheet"
)

// Handler carries the dependencies of the HTTP endpoints.
type Handler struct {
	service *sheet.Service
	blobs   *blob.Store

	players     records.PlayerRepository
	coaches     records.CoachRepository
	tournaments records.TournamentRepository
	templates   records.TemplateRepository
	categories  records.AgeCategoryRepository
	sheets      records.MatchSheetRepository

	maxUploadSize int64
	logger        *slog.Logger
}

// HandlerDeps configures a Handler.
type HandlerDeps struct {
	Service *sheet.Service
	Blobs   *blob.Store

	Players     records.PlayerRepository
	Coaches     records.CoachRepository
	Tournaments records.TournamentRepository
	Templates   records.TemplateRepository
	Categories  records.AgeCategoryRepository
	Sheets      records.MatchSheetRepository

	MaxUploadSize int64
	Logger        *slog.Logger
}

// NewHandler creates the endpoint handler set.
func NewHandler(d HandlerDeps) *Handler {
	return &Handler{
		service:       d.Service,
		blobs:         d.Blobs,
		players:       d.Players,
		coaches:       d.Coaches,
		tournaments:   d.Tournaments,
		templates:     d.Templates,
		categories:    d.Categories,
		sheets:        d.Sheets,
		maxUploadSize: d.MaxUploadSize,
		logger:        d.Logger,
	}
}

// SetupRoutes configures all API routes.
func (h *Handler) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		templates := api.Group("/templates")
		{
			templates.POST("", h.uploadTemplate)
			templates.GET("", h.listTemplates)
			templates.GET("/:id", h.getTemplate)
			templates.DELETE("/:id", h.deleteTemplate)
			templates.POST("/:id/analyze", h.analyzeTemplate)
			templates.GET("/:id/mapping", h.getMapping)
			templates.PUT("/:id/mapping", h.commitMapping)
		}

		sheets := api.Group("/matchsheets")
		{
			sheets.POST("", h.generateSheet)
			sheets.GET("", h.listSheets)
			sheets.GET("/:id", h.getSheet)
		}

		h.registerRosterRoutes(api)
	}

	// Artifact downloads keep the two logical path prefixes distinguishing
	// fill outputs from source templates.
	r.GET("/generated_pdfs/:filename", h.download(blob.GeneratedPrefix))
	r.GET("/templates/:filename", h.download(blob.TemplatePrefix))
}

// fail maps domain errors onto HTTP statuses with a uniform JSON body.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, records.ErrNotFound), errors.Is(err, sheet.ErrTemplateFileMissing):
		status = http.StatusNotFound
	case errors.Is(err, pdf.ErrMalformedDocument):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, mapping.ErrProposalServiceUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

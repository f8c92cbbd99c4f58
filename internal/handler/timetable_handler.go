package handler

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-timetable/scheduler/internal/models"
	"github.com/campus-timetable/scheduler/internal/prep"
	"github.com/campus-timetable/scheduler/internal/service"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
	"github.com/campus-timetable/scheduler/pkg/response"
)

type timetableSolveService interface {
	Prepare(ctx context.Context) (*prep.Result, error)
	Generate(ctx context.Context) (*service.GenerateResult, error)
}

type timetableQueryService interface {
	FullTimetable(ctx context.Context) (models.TimetableView, error)
}

type timetableExportService interface {
	GenerateTimetable(view models.TimetableView, scope string, format service.ExportFormat) (*service.ExportResult, error)
	ParseToken(token string, allowExpired bool) (scope, relPath string, expiresAt time.Time, err error)
	Open(relPath string) (*os.File, error)
}

// TimetableHandler wires the preparation/solve/export surface (§6).
type TimetableHandler struct {
	timetable timetableSolveService
	query     timetableQueryService
	export    timetableExportService
}

// NewTimetableHandler constructs a TimetableHandler.
func NewTimetableHandler(timetable timetableSolveService, query timetableQueryService, export timetableExportService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable, query: query, export: export}
}

// AutoPrepare godoc
// @Summary Regenerate timeslots and events
// @Description Runs the Preparation Engine over the current course/batch catalog
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /admin/auto-prepare [post]
func (h *TimetableHandler) AutoPrepare(c *gin.Context) {
	result, err := h.timetable.Prepare(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateTimetable godoc
// @Summary Solve for a feasible timetable
// @Description Runs Domain Builder, Constraint Model, Search Driver, and Verifier, then publishes the result
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /generate-timetable [post]
func (h *TimetableHandler) GenerateTimetable(c *gin.Context) {
	result, err := h.timetable.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.View, nil)
}

// FullTimetable godoc
// @Summary Get the published full timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/full [get]
func (h *TimetableHandler) FullTimetable(c *gin.Context) {
	view, err := h.query.FullTimetable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// ExportFullTimetable godoc
// @Summary Export the full timetable
// @Tags Timetable
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {object} response.Envelope
// @Router /timetable/full/export [get]
func (h *TimetableHandler) ExportFullTimetable(c *gin.Context) {
	view, err := h.query.FullTimetable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	format := parseExportFormat(c.Query("format"))
	result, err := h.export.GenerateTimetable(view, "full", format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DownloadExport godoc
// @Summary Download a previously generated export via its signed token
// @Tags Timetable
// @Produce octet-stream
// @Param token path string true "signed export token"
// @Success 200 {file} file
// @Failure 410 {object} response.Envelope
// @Router /export/{token} [get]
func (h *TimetableHandler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	_, relPath, _, err := h.export.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrNotFound.Code, http.StatusGone, "export link expired or invalid"))
		return
	}

	f, err := h.export.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", "attachment")
	c.Status(http.StatusOK)
	if _, err := c.Writer.ReadFrom(f); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func parseExportFormat(raw string) service.ExportFormat {
	if raw == string(service.ExportFormatPDF) {
		return service.ExportFormatPDF
	}
	return service.ExportFormatCSV
}

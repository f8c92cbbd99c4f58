package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-timetable/scheduler/internal/models"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
	"github.com/campus-timetable/scheduler/pkg/response"
)

type batchQueryService interface {
	BatchTimetable(ctx context.Context, batchID int64) (models.TimetableView, error)
	BatchFreeSlots(ctx context.Context, batchID int64) ([]models.FreeInterval, error)
}

// BatchTimetableHandler serves a single batch's slice of the published
// timetable and its free-block view (§6 `/batches/{id}/timetable`,
// `/batches/{id}/free-slots`).
type BatchTimetableHandler struct {
	query batchQueryService
}

// NewBatchTimetableHandler constructs a BatchTimetableHandler.
func NewBatchTimetableHandler(query batchQueryService) *BatchTimetableHandler {
	return &BatchTimetableHandler{query: query}
}

// Timetable godoc
// @Summary Get a batch's timetable
// @Tags Batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/timetable [get]
func (h *BatchTimetableHandler) Timetable(c *gin.Context) {
	id, err := parseBatchID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.query.BatchTimetable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// FreeSlots godoc
// @Summary Get a batch's free timeslots
// @Tags Batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/free-slots [get]
func (h *BatchTimetableHandler) FreeSlots(c *gin.Context) {
	id, err := parseBatchID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	free, err := h.query.BatchFreeSlots(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, free, nil)
}

func parseBatchID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch id")
	}
	return id, nil
}

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

type teacherQueryService interface {
	TeacherTimetable(ctx context.Context, teacherID int64) (models.TimetableView, error)
}

// TeacherTimetableHandler serves a single teacher's slice of the
// published timetable (§6 `/teachers/{id}/timetable`).
type TeacherTimetableHandler struct {
	query teacherQueryService
}

// NewTeacherTimetableHandler constructs a TeacherTimetableHandler.
func NewTeacherTimetableHandler(query teacherQueryService) *TeacherTimetableHandler {
	return &TeacherTimetableHandler{query: query}
}

// Timetable godoc
// @Summary Get a teacher's timetable
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id}/timetable [get]
func (h *TeacherTimetableHandler) Timetable(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher id"))
		return
	}

	view, err := h.query.TeacherTimetable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

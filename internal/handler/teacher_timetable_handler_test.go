package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campus-timetable/scheduler/internal/models"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
)

type fakeTeacherQuerySrv struct {
	view       models.TimetableView
	err        error
	lastTeacID int64
}

func (f *fakeTeacherQuerySrv) TeacherTimetable(_ context.Context, teacherID int64) (models.TimetableView, error) {
	f.lastTeacID = teacherID
	return f.view, f.err
}

func TestTeacherTimetableHandlerRejectsNonNumericID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTeacherTimetableHandler(&fakeTeacherQuerySrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/teachers/abc/timetable", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Timetable(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeacherTimetableHandlerReturnsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTeacherTimetableHandler(&fakeTeacherQuerySrv{err: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/teachers/99/timetable", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	handler.Timetable(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTeacherTimetableHandlerPassesParsedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTeacherQuerySrv{view: models.TimetableView{Days: []models.DayView{{Day: models.Monday}}}}
	handler := NewTeacherTimetableHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/teachers/7/timetable", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.Timetable(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, srv.lastTeacID)
}

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

type fakeBatchQuerySrv struct {
	view        models.TimetableView
	viewErr     error
	free        []models.FreeInterval
	freeErr     error
	lastBatchID int64
}

func (f *fakeBatchQuerySrv) BatchTimetable(_ context.Context, batchID int64) (models.TimetableView, error) {
	f.lastBatchID = batchID
	return f.view, f.viewErr
}

func (f *fakeBatchQuerySrv) BatchFreeSlots(_ context.Context, batchID int64) ([]models.FreeInterval, error) {
	f.lastBatchID = batchID
	return f.free, f.freeErr
}

func TestBatchTimetableHandlerRejectsNonNumericID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBatchTimetableHandler(&fakeBatchQuerySrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/xyz/timetable", nil)
	c.Params = gin.Params{{Key: "id", Value: "xyz"}}

	handler.Timetable(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchTimetableHandlerReturnsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBatchTimetableHandler(&fakeBatchQuerySrv{viewErr: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/404/timetable", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	handler.Timetable(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchTimetableHandlerPassesParsedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeBatchQuerySrv{view: models.TimetableView{Days: []models.DayView{{Day: models.Monday}}}}
	handler := NewBatchTimetableHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/3/timetable", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	handler.Timetable(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, srv.lastBatchID)
}

func TestFreeSlotsHandlerReturnsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBatchTimetableHandler(&fakeBatchQuerySrv{freeErr: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/404/free-slots", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	handler.FreeSlots(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFreeSlotsHandlerReturnsIntervals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeBatchQuerySrv{free: []models.FreeInterval{{Day: models.Monday, StartHour: 10, EndHour: 12, Duration: 2}}}
	handler := NewBatchTimetableHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/1/free-slots", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.FreeSlots(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

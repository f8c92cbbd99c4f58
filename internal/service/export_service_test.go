package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-timetable/scheduler/internal/models"
	"github.com/campus-timetable/scheduler/pkg/export"
	"github.com/campus-timetable/scheduler/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func sampleTimetableView() models.TimetableView {
	return models.TimetableView{
		Days: []models.DayView{
			{
				Day: models.Monday,
				Timeslots: []models.TimeslotView{
					{
						StartHour: 9,
						EndHour:   10,
						SlotType:  models.SlotTypeLecture,
						Classes: []models.ClassView{
							{EventName: "Algorithms Lecture 1", RoomName: "R101", TeacherName: "Dr. Rao", BatchNames: []string{"CS-A", "CS-B"}},
						},
					},
				},
			},
		},
	}
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	result, err := svc.GenerateTimetable(sampleTimetableView(), "full", ExportFormatCSV)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/export/")

	path := store.Path(result.RelativePath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	result, err := svc.GenerateTimetable(sampleTimetableView(), "teacher-1", ExportFormatPDF)
	require.NoError(t, err)
	require.Equal(t, ExportFormatPDF, result.Format)

	path := filepath.Clean(store.Path(result.RelativePath))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceParseTokenRoundTrip(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	result, err := svc.GenerateTimetable(sampleTimetableView(), "full", ExportFormatCSV)
	require.NoError(t, err)

	scope, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	require.Equal(t, "full", scope)
	require.Equal(t, result.RelativePath, relPath)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-timetable/scheduler/internal/models"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
)

func queryFixtureStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		teachers: []models.Teacher{{ID: 1, Name: "Dr. Rao"}},
		batches:  []models.Batch{{ID: 1, Name: "CS-A"}, {ID: 2, Name: "CS-B"}},
		rooms:    []models.Room{{ID: 1, Name: "R101"}},
		timeslots: []models.Timeslot{
			{ID: 1, Day: models.Monday, StartHour: 9, EndHour: 10, Duration: 1, SlotType: models.SlotTypeLecture},
		},
		events: []models.Event{
			{ID: 1, Name: "Algorithms Lecture 1", Duration: 1, BatchIDs: []int64{1, 2}},
		},
		assignment: []models.Assignment{
			{EventID: 1, TeacherID: 1, RoomID: 1, TimeslotID: 1},
		},
	}
}

func newTestQueryService(store *fakeCatalogStore) *QueryService {
	cache := NewCacheService(nil, nil, 0, zap.NewNop(), false)
	return NewQueryService(store, cache, QueryServiceConfig{})
}

func TestFullTimetableFormatsPublishedAssignment(t *testing.T) {
	svc := newTestQueryService(queryFixtureStore())

	view, err := svc.FullTimetable(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Days, 5)
	require.Equal(t, "Algorithms Lecture 1", view.Days[0].Timeslots[0].Classes[0].EventName)
}

func TestTeacherTimetableReturnsNotFoundForUnknownTeacher(t *testing.T) {
	svc := newTestQueryService(queryFixtureStore())

	_, err := svc.TeacherTimetable(context.Background(), 99)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTeacherTimetableFiltersToQualifiedTeacher(t *testing.T) {
	svc := newTestQueryService(queryFixtureStore())

	view, err := svc.TeacherTimetable(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Days, 5)
}

func TestBatchTimetableReturnsNotFoundForUnknownBatch(t *testing.T) {
	svc := newTestQueryService(queryFixtureStore())

	_, err := svc.BatchTimetable(context.Background(), 404)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBatchTimetableFiltersToMember(t *testing.T) {
	svc := newTestQueryService(queryFixtureStore())

	view, err := svc.BatchTimetable(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Days, 5)
}

func TestBatchFreeSlotsReturnsNotFoundForUnknownBatch(t *testing.T) {
	svc := newTestQueryService(queryFixtureStore())

	_, err := svc.BatchFreeSlots(context.Background(), 404)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBatchFreeSlotsExtractsFreeIntervals(t *testing.T) {
	store := queryFixtureStore()
	store.timeslots = append(store.timeslots, models.Timeslot{
		ID: 2, Day: models.Monday, StartHour: 10, EndHour: 11, Duration: 1, SlotType: models.SlotTypeLecture,
	})
	svc := newTestQueryService(store)

	free, err := svc.BatchFreeSlots(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, free, 1)
	require.Equal(t, 10, free[0].StartHour)
	require.Equal(t, 11, free[0].EndHour)
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-timetable/scheduler/internal/models"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
)

// These pin the literal end-to-end scenarios: one teacher, one room, a
// handful of timeslots, one course driving a small event set. Each mirrors
// a named scenario rather than a synthetic stress fixture.

func twoSlotStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		teachers: []models.Teacher{{ID: 1, Name: "T1", MaxHours: 16, CourseIDs: []int64{1}}},
		courses:  []models.Course{{ID: 1, Name: "C", CreditHours: models.CreditHoursLectureOnly}},
		rooms:    []models.Room{{ID: 1, Name: "Lecture_X", Capacity: 100, RoomType: models.RoomTypeLecture}},
		timeslots: []models.Timeslot{
			{ID: 1, Day: models.Monday, StartHour: 9, EndHour: 10, Duration: 1, SlotType: models.SlotTypeLecture},
			{ID: 2, Day: models.Monday, StartHour: 10, EndHour: 11, Duration: 1, SlotType: models.SlotTypeLecture},
		},
		events: []models.Event{
			{ID: 1, Name: "C Lecture 1", Duration: 1, RequiredRoomType: models.RoomTypeLecture, TotalSize: 60, CourseID: 1, BatchIDs: []int64{1, 2}},
			{ID: 2, Name: "C Lecture 2", Duration: 1, RequiredRoomType: models.RoomTypeLecture, TotalSize: 60, CourseID: 1, BatchIDs: []int64{1, 2}},
			{ID: 3, Name: "C Lecture 3", Duration: 1, RequiredRoomType: models.RoomTypeLecture, TotalSize: 60, CourseID: 1, BatchIDs: []int64{1, 2}},
		},
	}
}

// Scenario 1: two batches, one room, three one-hour lectures required for
// the (B1, B2) pair, but only two Monday timeslots exist. No assignment of
// all three lectures can avoid clashing, so no feasible timetable exists.
func TestScenarioMinimalInfeasibleTooFewSlots(t *testing.T) {
	store := twoSlotStore()
	svc := newTestTimetableService(store)

	_, err := svc.Generate(context.Background())
	require.ErrorIs(t, err, appErrors.ErrInfeasible)
}

// Scenario 2: same as scenario 1 but with a third Monday timeslot added,
// giving each of the three lectures its own slot.
func TestScenarioMinimalFeasibleWithThirdSlot(t *testing.T) {
	store := twoSlotStore()
	store.timeslots = append(store.timeslots, models.Timeslot{
		ID: 3, Day: models.Monday, StartHour: 11, EndHour: 12, Duration: 1, SlotType: models.SlotTypeLecture,
	})
	svc := newTestTimetableService(store)

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Assignment, 3)

	seenSlots := map[int64]bool{}
	for _, row := range result.Assignment {
		require.EqualValues(t, 1, row.TeacherID)
		require.EqualValues(t, 1, row.RoomID)
		require.False(t, seenSlots[row.TimeslotID], "each lecture lands on a distinct timeslot")
		seenSlots[row.TimeslotID] = true
	}
}

// Scenario 3: one teacher with a workload cap below the total demand.
func TestScenarioTeacherWorkloadCapMakesItInfeasible(t *testing.T) {
	store := twoSlotStore()
	store.teachers[0].MaxHours = 2
	store.timeslots = append(store.timeslots, models.Timeslot{
		ID: 3, Day: models.Monday, StartHour: 11, EndHour: 12, Duration: 1, SlotType: models.SlotTypeLecture,
	})
	svc := newTestTimetableService(store)

	_, err := svc.Generate(context.Background())
	require.ErrorIs(t, err, appErrors.ErrInfeasible)
}

// Scenario 4: two pair events sharing a batch (B2), one Monday timeslot,
// two rooms, two teachers. Even with ample rooms and teachers, the shared
// batch cannot attend both events at once.
func TestScenarioSharedBatchOverlapIsInfeasible(t *testing.T) {
	store := &fakeCatalogStore{
		teachers: []models.Teacher{
			{ID: 1, Name: "T1", MaxHours: 16, CourseIDs: []int64{1}},
			{ID: 2, Name: "T2", MaxHours: 16, CourseIDs: []int64{2}},
		},
		courses: []models.Course{
			{ID: 1, Name: "C1", CreditHours: models.CreditHoursLectureOnly},
			{ID: 2, Name: "C2", CreditHours: models.CreditHoursLectureOnly},
		},
		rooms: []models.Room{
			{ID: 1, Name: "R1", Capacity: 100, RoomType: models.RoomTypeLecture},
			{ID: 2, Name: "R2", Capacity: 100, RoomType: models.RoomTypeLecture},
		},
		timeslots: []models.Timeslot{
			{ID: 1, Day: models.Monday, StartHour: 9, EndHour: 10, Duration: 1, SlotType: models.SlotTypeLecture},
		},
		events: []models.Event{
			{ID: 1, Name: "E1 (B1/B2)", Duration: 1, RequiredRoomType: models.RoomTypeLecture, TotalSize: 60, CourseID: 1, BatchIDs: []int64{1, 2}},
			{ID: 2, Name: "E2 (B2/B3)", Duration: 1, RequiredRoomType: models.RoomTypeLecture, TotalSize: 60, CourseID: 2, BatchIDs: []int64{2, 3}},
		},
	}
	svc := newTestTimetableService(store)

	_, err := svc.Generate(context.Background())
	require.ErrorIs(t, err, appErrors.ErrInfeasible)
}

// Scenario 5: a duration-2 lab event exists but only duration-1 Lecture
// timeslots are available, so the event has zero admissible candidates.
func TestScenarioLabWithNoLabTimeslotIsEmptyDomain(t *testing.T) {
	store := &fakeCatalogStore{
		teachers: []models.Teacher{{ID: 1, Name: "T1", MaxHours: 16, CourseIDs: []int64{1}}},
		courses:  []models.Course{{ID: 1, Name: "C", CreditHours: models.CreditHoursLab}},
		rooms:    []models.Room{{ID: 1, Name: "Lab1", Capacity: 100, RoomType: models.RoomTypeLab}},
		timeslots: []models.Timeslot{
			{ID: 1, Day: models.Monday, StartHour: 9, EndHour: 10, Duration: 1, SlotType: models.SlotTypeLecture},
		},
		events: []models.Event{
			{ID: 1, Name: "C Lab (B1/B2)", Duration: 2, RequiredRoomType: models.RoomTypeLab, TotalSize: 60, CourseID: 1, BatchIDs: []int64{1, 2}},
		},
	}
	svc := newTestTimetableService(store)

	_, err := svc.Generate(context.Background())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, appErrors.ErrEmptyDomain.Code, appErr.Code)
}

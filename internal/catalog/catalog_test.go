package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-timetable/scheduler/internal/models"
)

type fakeStore struct {
	teachers  []models.Teacher
	courses   []models.Course
	batches   []models.Batch
	rooms     []models.Room
	timeslots []models.Timeslot
	events    []models.Event
}

func (f *fakeStore) ListTeachers(context.Context) ([]models.Teacher, error)   { return f.teachers, nil }
func (f *fakeStore) ListCourses(context.Context) ([]models.Course, error)     { return f.courses, nil }
func (f *fakeStore) ListBatches(context.Context) ([]models.Batch, error)      { return f.batches, nil }
func (f *fakeStore) ListRooms(context.Context) ([]models.Room, error)         { return f.rooms, nil }
func (f *fakeStore) ListTimeslots(context.Context) ([]models.Timeslot, error) { return f.timeslots, nil }
func (f *fakeStore) ListEvents(context.Context) ([]models.Event, error)       { return f.events, nil }
func (f *fakeStore) ReadAssignment(context.Context) ([]models.Assignment, error) {
	return nil, nil
}
func (f *fakeStore) ReplaceAssignment(context.Context, []models.Assignment) error { return nil }
func (f *fakeStore) ReplaceTimeslotsAndEvents(context.Context, []models.Timeslot, []models.Event) error {
	return nil
}
func (f *fakeStore) CreateSolverRun(context.Context, *models.SolverRun) error { return nil }

func sampleStore() *fakeStore {
	return &fakeStore{
		teachers: []models.Teacher{
			{ID: 1, Name: "Dr. Rao", CourseIDs: []int64{100}},
			{ID: 2, Name: "Dr. Iyer", CourseIDs: []int64{100, 200}},
		},
		courses: []models.Course{{ID: 100, Name: "Algorithms"}, {ID: 200, Name: "Databases"}},
		rooms: []models.Room{
			{ID: 1, Name: "R101", RoomType: models.RoomTypeLecture},
			{ID: 2, Name: "Lab1", RoomType: models.RoomTypeLab},
		},
		timeslots: []models.Timeslot{
			{ID: 1, Day: models.Monday, StartHour: 9, EndHour: 10, Duration: 1, SlotType: models.SlotTypeLecture},
			{ID: 2, Day: models.Monday, StartHour: 10, EndHour: 12, Duration: 2, SlotType: models.SlotTypeLab},
		},
		events: []models.Event{
			{ID: 1, CourseID: 100, BatchIDs: []int64{1, 2}},
			{ID: 2, CourseID: 200, BatchIDs: []int64{1}},
		},
	}
}

func TestLoadBuildsIDIndices(t *testing.T) {
	snap, err := Load(context.Background(), sampleStore())
	require.NoError(t, err)

	require.Len(t, snap.TeacherByID, 2)
	require.Equal(t, "Dr. Rao", snap.TeacherByID[1].Name)
	require.Len(t, snap.CourseByID, 2)
	require.Len(t, snap.RoomByID, 2)
	require.Len(t, snap.SlotByID, 2)
	require.Len(t, snap.EventByID, 2)
}

func TestTeachersByCourseIndexesQualifiedTeachers(t *testing.T) {
	snap, err := Load(context.Background(), sampleStore())
	require.NoError(t, err)

	byCourse := snap.TeachersByCourse()
	require.ElementsMatch(t, []int64{1, 2}, byCourse[100])
	require.ElementsMatch(t, []int64{2}, byCourse[200])
}

func TestEventsByBatchIndexesSharedEvents(t *testing.T) {
	snap, err := Load(context.Background(), sampleStore())
	require.NoError(t, err)

	byBatch := snap.EventsByBatch()
	require.ElementsMatch(t, []int64{1, 2}, byBatch[1])
	require.ElementsMatch(t, []int64{1}, byBatch[2])
}

func TestRoomsByTypeGroupsByRoomType(t *testing.T) {
	snap, err := Load(context.Background(), sampleStore())
	require.NoError(t, err)

	byType := snap.RoomsByType()
	require.Len(t, byType[models.RoomTypeLecture], 1)
	require.Len(t, byType[models.RoomTypeLab], 1)
}

func TestSlotsByDurationAndTypeGroupsBySlotKey(t *testing.T) {
	snap, err := Load(context.Background(), sampleStore())
	require.NoError(t, err)

	byKey := snap.SlotsByDurationAndType()
	lecture := byKey[SlotKey{Duration: 1, SlotType: models.SlotTypeLecture}]
	require.Len(t, lecture, 1)
	lab := byKey[SlotKey{Duration: 2, SlotType: models.SlotTypeLab}]
	require.Len(t, lab, 1)
}

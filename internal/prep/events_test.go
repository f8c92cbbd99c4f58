package prep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-timetable/scheduler/internal/models"
)

func sampleBatches() []models.Batch {
	return []models.Batch{
		{ID: 1, Name: "CS-A", Size: 40},
		{ID: 2, Name: "CS-B", Size: 38},
		{ID: 3, Name: "CS-C", Size: 41},
	}
}

func TestPairBatchesDropsOddTail(t *testing.T) {
	pairs := pairBatches(sampleBatches())
	require.Len(t, pairs, 1)
	require.Equal(t, int64(1), pairs[0].First.ID)
	require.Equal(t, int64(2), pairs[0].Second.ID)
}

func TestGenerateEventsTutorialLectureCourse(t *testing.T) {
	course := models.Course{ID: 10, Name: "Algorithms", CreditHours: models.CreditHoursTutorialLecture}
	events := GenerateEvents([]models.Course{course}, sampleBatches())

	var lectures, tutorials int
	for _, e := range events {
		require.Equal(t, course.ID, e.CourseID)
		switch e.RequiredRoomType {
		case models.RoomTypeLecture:
			lectures++
			require.Equal(t, 1, e.Duration)
			require.Len(t, e.BatchIDs, 2)
		case models.RoomTypeTutorial:
			tutorials++
			require.Equal(t, 1, e.Duration)
			require.Len(t, e.BatchIDs, 1)
		default:
			t.Fatalf("unexpected room type %s", e.RequiredRoomType)
		}
	}
	require.Equal(t, 3, lectures)
	require.Equal(t, 2, tutorials)
}

func TestGenerateEventsLectureOnlyCourse(t *testing.T) {
	course := models.Course{ID: 11, Name: "Databases", CreditHours: models.CreditHoursLectureOnly}
	events := GenerateEvents([]models.Course{course}, sampleBatches())
	require.Len(t, events, 3)
	for _, e := range events {
		require.Equal(t, models.RoomTypeLecture, e.RequiredRoomType)
	}
}

func TestGenerateEventsLabCourse(t *testing.T) {
	course := models.Course{ID: 12, Name: "Systems", CreditHours: models.CreditHoursLab}
	events := GenerateEvents([]models.Course{course}, sampleBatches())
	require.Len(t, events, 1)
	require.Equal(t, 2, events[0].Duration)
	require.Equal(t, models.RoomTypeLab, events[0].RequiredRoomType)
	require.Equal(t, 78, events[0].TotalSize)
}

func TestGenerateEventsSkipsUnsupportedCreditHours(t *testing.T) {
	course := models.Course{ID: 13, Name: "Seminar", CreditHours: 1}
	events := GenerateEvents([]models.Course{course}, sampleBatches())
	require.Empty(t, events)
}

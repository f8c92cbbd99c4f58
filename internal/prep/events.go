package prep

import (
	"fmt"

	"github.com/campus-timetable/scheduler/internal/models"
)

// batchPair is a consecutive pair of batches formed in insertion order.
// An unpaired tail batch (odd count) is dropped from pair-based events,
// per §4.1.
type batchPair struct {
	First  models.Batch
	Second models.Batch
}

func pairBatches(batches []models.Batch) []batchPair {
	var pairs []batchPair
	for i := 0; i+1 < len(batches); i += 2 {
		pairs = append(pairs, batchPair{First: batches[i], Second: batches[i+1]})
	}
	return pairs
}

// GenerateEvents builds the canonical event set for a catalog snapshot of
// courses and batches, per the credit_hours rules in §4.1. Courses whose
// credit_hours is not 2, 3, or 4 are silently skipped.
func GenerateEvents(courses []models.Course, batches []models.Batch) []models.Event {
	pairs := pairBatches(batches)

	var events []models.Event
	for _, course := range courses {
		switch course.CreditHours {
		case models.CreditHoursTutorialLecture:
			for _, pair := range pairs {
				events = append(events, lectureEvents(course, pair, 3)...)
				events = append(events, tutorialEvent(course, pair.First))
				events = append(events, tutorialEvent(course, pair.Second))
			}
		case models.CreditHoursLectureOnly:
			for _, pair := range pairs {
				events = append(events, lectureEvents(course, pair, 3)...)
			}
		case models.CreditHoursLab:
			for _, pair := range pairs {
				events = append(events, labEvent(course, pair))
			}
		default:
			continue
		}
	}
	return events
}

func lectureEvents(course models.Course, pair batchPair, count int) []models.Event {
	totalSize := pair.First.Size + pair.Second.Size
	out := make([]models.Event, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, models.Event{
			Name:             fmt.Sprintf("%s Lecture %d (%s/%s)", course.Name, i, pair.First.Name, pair.Second.Name),
			Duration:         1,
			RequiredRoomType: models.RoomTypeLecture,
			TotalSize:        totalSize,
			CourseID:         course.ID,
			BatchIDs:         []int64{pair.First.ID, pair.Second.ID},
		})
	}
	return out
}

func tutorialEvent(course models.Course, batch models.Batch) models.Event {
	return models.Event{
		Name:             fmt.Sprintf("%s Tutorial (%s)", course.Name, batch.Name),
		Duration:         1,
		RequiredRoomType: models.RoomTypeTutorial,
		TotalSize:        batch.Size,
		CourseID:         course.ID,
		BatchIDs:         []int64{batch.ID},
	}
}

func labEvent(course models.Course, pair batchPair) models.Event {
	return models.Event{
		Name:             fmt.Sprintf("%s Lab (%s/%s)", course.Name, pair.First.Name, pair.Second.Name),
		Duration:         2,
		RequiredRoomType: models.RoomTypeLab,
		TotalSize:        pair.First.Size + pair.Second.Size,
		CourseID:         course.ID,
		BatchIDs:         []int64{pair.First.ID, pair.Second.ID},
	}
}

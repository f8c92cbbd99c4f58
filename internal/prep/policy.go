// Package prep implements the Preparation Engine (§4.1): it produces the
// canonical timeslot grid and the canonical event set from a raw catalog
// of courses and batches.
package prep

import "github.com/campus-timetable/scheduler/internal/models"

// Policy constants governing timeslot generation. Named per the REDESIGN
// FLAGS in §9 so tests can vary the working week, hours, and lunch gap
// without touching generation logic.
var (
	// WorkingDays is the ordered set of days the engine generates slots for.
	WorkingDays = []models.Weekday{
		models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday,
	}
	// LectureHours lists the working hours eligible for a one-hour Lecture
	// timeslot. LunchHour (12) is excluded.
	LectureHours = []int{9, 10, 11, 13, 14, 15, 16}
	// LabStarts lists the hours a two-hour Lab window may start at. Every
	// (start, start+2) window must lie fully on one side of LunchHour.
	LabStarts = []int{9, 10, 13, 14, 15}
	// LunchHour is the excluded hour; no Lecture or Lab timeslot may span it.
	LunchHour = 12
)

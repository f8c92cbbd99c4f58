package prep

import "github.com/campus-timetable/scheduler/internal/models"

// GenerateTimeslots builds the canonical Mon-Fri timeslot grid: one
// one-hour Lecture slot per LectureHours entry, and one two-hour Lab
// window per LabStarts entry that does not straddle LunchHour (§4.1).
func GenerateTimeslots() []models.Timeslot {
	var slots []models.Timeslot

	for _, day := range WorkingDays {
		for _, hour := range LectureHours {
			slots = append(slots, models.Timeslot{
				Day:       day,
				StartHour: hour,
				EndHour:   hour + 1,
				Duration:  1,
				SlotType:  models.SlotTypeLecture,
			})
		}

		for _, start := range LabStarts {
			end := start + 2
			if spansLunch(start, end) {
				continue
			}
			slots = append(slots, models.Timeslot{
				Day:       day,
				StartHour: start,
				EndHour:   end,
				Duration:  2,
				SlotType:  models.SlotTypeLab,
			})
		}
	}

	return slots
}

// spansLunch reports whether the half-open interval [start, end) covers
// any part of the lunch gap [LunchHour, LunchHour+1).
func spansLunch(start, end int) bool {
	return start < LunchHour+1 && LunchHour < end
}

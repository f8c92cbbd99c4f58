package prep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-timetable/scheduler/internal/models"
)

func TestGenerateTimeslotsCoversEveryWorkingDay(t *testing.T) {
	slots := GenerateTimeslots()
	byDay := make(map[models.Weekday]int)
	for _, s := range slots {
		byDay[s.Day]++
	}
	require.Len(t, byDay, len(WorkingDays))
	for _, day := range WorkingDays {
		require.Equal(t, len(LectureHours)+len(LabStarts), byDay[day], "day %s", day)
	}
}

func TestGenerateTimeslotsNeverSpansLunch(t *testing.T) {
	for _, slot := range GenerateTimeslots() {
		require.False(t, slot.StartHour <= LunchHour && LunchHour < slot.EndHour,
			"timeslot %+v spans the lunch hour", slot)
	}
}

func TestGenerateTimeslotsAssignsExpectedSlotType(t *testing.T) {
	for _, slot := range GenerateTimeslots() {
		switch slot.Duration {
		case 1:
			require.Equal(t, models.SlotTypeLecture, slot.SlotType)
		case 2:
			require.Equal(t, models.SlotTypeLab, slot.SlotType)
		default:
			t.Fatalf("unexpected duration %d", slot.Duration)
		}
	}
}

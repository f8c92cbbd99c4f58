// Package format renders a raw assignment against a catalog snapshot into
// the client-facing TimetableView shape (§6): name resolution happens once
// here, against the snapshot's id-indexed maps, rather than via per-row
// lookups scattered through the response path (§9).
package format

import (
	"sort"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/models"
)

// Timetable formats the full assignment into five day records.
func Timetable(snap *catalog.Snapshot, assignment []models.Assignment) models.TimetableView {
	return build(snap, assignment, nil)
}

// ForTeacher restricts the formatted timetable to rows assigned to teacherID.
func ForTeacher(snap *catalog.Snapshot, assignment []models.Assignment, teacherID int64) models.TimetableView {
	return build(snap, assignment, func(row models.Assignment, _ models.Event) bool {
		return row.TeacherID == teacherID
	})
}

// ForBatch restricts the formatted timetable to rows whose event includes batchID.
func ForBatch(snap *catalog.Snapshot, assignment []models.Assignment, batchID int64) models.TimetableView {
	return build(snap, assignment, func(_ models.Assignment, event models.Event) bool {
		for _, id := range event.BatchIDs {
			if id == batchID {
				return true
			}
		}
		return false
	})
}

func build(snap *catalog.Snapshot, assignment []models.Assignment, keep func(models.Assignment, models.Event) bool) models.TimetableView {
	type dayBucket struct {
		slots map[int64][]models.ClassView
	}
	byDay := make(map[models.Weekday]*dayBucket)

	for _, row := range assignment {
		event, ok := snap.EventByID[row.EventID]
		if !ok {
			continue
		}
		if keep != nil && !keep(row, event) {
			continue
		}
		slot, ok := snap.SlotByID[row.TimeslotID]
		if !ok {
			continue
		}

		bucket, ok := byDay[slot.Day]
		if !ok {
			bucket = &dayBucket{slots: make(map[int64][]models.ClassView)}
			byDay[slot.Day] = bucket
		}

		bucket.slots[slot.ID] = append(bucket.slots[slot.ID], models.ClassView{
			EventName:   event.Name,
			RoomName:    roomName(snap, row.RoomID),
			TeacherName: teacherName(snap, row.TeacherID),
			BatchNames:  batchNames(snap, event.BatchIDs),
		})
	}

	var view models.TimetableView
	for _, day := range []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday} {
		dayView := models.DayView{Day: day}

		bucket, ok := byDay[day]
		if ok {
			slotIDs := make([]int64, 0, len(bucket.slots))
			for id := range bucket.slots {
				slotIDs = append(slotIDs, id)
			}
			sort.Slice(slotIDs, func(i, j int) bool {
				return snap.SlotByID[slotIDs[i]].StartHour < snap.SlotByID[slotIDs[j]].StartHour
			})

			for _, id := range slotIDs {
				slot := snap.SlotByID[id]
				dayView.Timeslots = append(dayView.Timeslots, models.TimeslotView{
					StartHour: slot.StartHour,
					EndHour:   slot.EndHour,
					SlotType:  slot.SlotType,
					Classes:   bucket.slots[id],
				})
			}
		}

		view.Days = append(view.Days, dayView)
	}
	return view
}

func roomName(snap *catalog.Snapshot, roomID int64) string {
	if room, ok := snap.RoomByID[roomID]; ok {
		return room.Name
	}
	return ""
}

func teacherName(snap *catalog.Snapshot, teacherID int64) string {
	if teacher, ok := snap.TeacherByID[teacherID]; ok {
		return teacher.Name
	}
	return models.UnassignedTeacherName
}

func batchNames(snap *catalog.Snapshot, batchIDs []int64) []string {
	names := make([]string, 0, len(batchIDs))
	for _, id := range batchIDs {
		if batch, ok := snap.BatchByID[id]; ok {
			names = append(names, batch.Name)
		}
	}
	return names
}

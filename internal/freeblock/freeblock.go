// Package freeblock implements the Free-Block Extractor (§4.6): given a
// batch and the current assignment, it computes the contiguous free
// intervals per working day.
package freeblock

import (
	"sort"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/models"
)

type daySet struct {
	busyHours    map[int]struct{}
	presentHours map[int]struct{}
}

// Extract computes the free intervals for batchID given assignment. It is
// read-only and deterministic given the assignment (P9).
func Extract(snap *catalog.Snapshot, assignment []models.Assignment, batchID int64) []models.FreeInterval {
	byDay := make(map[models.Weekday]*daySet)
	dayOf := func(day models.Weekday) *daySet {
		ds, ok := byDay[day]
		if !ok {
			ds = &daySet{busyHours: make(map[int]struct{}), presentHours: make(map[int]struct{})}
			byDay[day] = ds
		}
		return ds
	}

	// H_d: every working hour present in the catalog's timeslot grid for
	// that day, regardless of this batch's assignments.
	for _, slot := range snap.Timeslots {
		ds := dayOf(slot.Day)
		for h := slot.StartHour; h < slot.EndHour; h++ {
			ds.presentHours[h] = struct{}{}
		}
	}

	for _, row := range assignment {
		event, ok := snap.EventByID[row.EventID]
		if !ok || !containsBatch(event.BatchIDs, batchID) {
			continue
		}
		slot, ok := snap.SlotByID[row.TimeslotID]
		if !ok {
			continue
		}
		ds := dayOf(slot.Day)
		for h := slot.StartHour; h < slot.EndHour; h++ {
			ds.busyHours[h] = struct{}{}
		}
	}

	var out []models.FreeInterval
	for _, day := range orderedDays(byDay) {
		ds := byDay[day]
		hours := sortedKeys(ds.presentHours)
		out = append(out, extractDay(day, hours, ds.busyHours)...)
	}
	return out
}

func extractDay(day models.Weekday, hours []int, busy map[int]struct{}) []models.FreeInterval {
	var out []models.FreeInterval
	runStart := -1
	for i, hour := range hours {
		_, isBusy := busy[hour]
		if isBusy {
			runStart = -1
			continue
		}
		if runStart == -1 {
			runStart = hour
		}

		isLast := i == len(hours)-1
		breaksNext := isLast
		if !isLast {
			next := hours[i+1]
			_, nextBusy := busy[next]
			breaksNext = nextBusy || next != hour+1
		}
		if breaksNext {
			out = append(out, models.FreeInterval{
				Day:       day,
				StartHour: runStart,
				EndHour:   hour + 1,
				Duration:  hour + 1 - runStart,
			})
			runStart = -1
		}
	}
	return out
}

func containsBatch(ids []int64, target int64) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func orderedDays(byDay map[models.Weekday]*daySet) []models.Weekday {
	order := []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}
	var out []models.Weekday
	for _, d := range order {
		if _, ok := byDay[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

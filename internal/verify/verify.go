// Package verify implements the Post-Solve Verifier (§4.5): an
// independent re-check of a proposed assignment against every hard
// constraint, as defense in depth against solver or encoding bugs. A
// violation here is a fatal bug and must abort the publish step.
package verify

import (
	"fmt"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/models"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
)

// Violation describes one failed check, for the structured diagnostic
// report required by §4.5.
type Violation struct {
	Rule    string
	Detail  string
}

// Check re-validates assignment against snap independently of how it was
// produced. It returns a *pkg/errors.Error wrapping every Violation found,
// or nil if the assignment is clean.
func Check(snap *catalog.Snapshot, assignment []models.Assignment) error {
	var violations []Violation

	violations = append(violations, checkCompleteness(snap, assignment)...)
	violations = append(violations, checkAdmissibility(snap, assignment)...)
	violations = append(violations, checkExclusivity(snap, assignment)...)
	violations = append(violations, checkWorkload(snap, assignment)...)

	if len(violations) == 0 {
		return nil
	}
	return appErrors.Wrap(
		fmt.Errorf("%d constraint violation(s): %v", len(violations), violations),
		appErrors.ErrVerifierViolation.Code, appErrors.ErrVerifierViolation.Status,
		"solver produced a solution that failed verification",
	)
}

// checkCompleteness enforces P1: exactly one row per event.
func checkCompleteness(snap *catalog.Snapshot, assignment []models.Assignment) []Violation {
	var violations []Violation
	seen := make(map[int64]int, len(assignment))
	for _, row := range assignment {
		seen[row.EventID]++
	}
	for _, event := range snap.Events {
		switch seen[event.ID] {
		case 1:
		case 0:
			violations = append(violations, Violation{Rule: "P1", Detail: fmt.Sprintf("event %d (%s) has no assignment", event.ID, event.Name)})
		default:
			violations = append(violations, Violation{Rule: "P1", Detail: fmt.Sprintf("event %d (%s) has %d assignments", event.ID, event.Name, seen[event.ID])})
		}
	}
	return violations
}

// checkAdmissibility enforces P2: qualification, room type/capacity,
// timeslot duration/slot_type.
func checkAdmissibility(snap *catalog.Snapshot, assignment []models.Assignment) []Violation {
	var violations []Violation
	teachersByCourse := snap.TeachersByCourse()

	for _, row := range assignment {
		event, ok := snap.EventByID[row.EventID]
		if !ok {
			violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("assignment references unknown event %d", row.EventID)})
			continue
		}

		qualified := false
		for _, tid := range teachersByCourse[event.CourseID] {
			if tid == row.TeacherID {
				qualified = true
				break
			}
		}
		if !qualified {
			violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("teacher %d is not qualified for event %d's course", row.TeacherID, event.ID)})
		}

		room, ok := snap.RoomByID[row.RoomID]
		if !ok {
			violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("event %d references unknown room %d", event.ID, row.RoomID)})
		} else {
			if room.RoomType != event.RequiredRoomType {
				violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("event %d requires room type %s, got %s", event.ID, event.RequiredRoomType, room.RoomType)})
			}
			if room.Capacity < event.TotalSize {
				violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("event %d total_size %d exceeds room %d capacity %d", event.ID, event.TotalSize, room.ID, room.Capacity)})
			}
		}

		slot, ok := snap.SlotByID[row.TimeslotID]
		if !ok {
			violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("event %d references unknown timeslot %d", event.ID, row.TimeslotID)})
			continue
		}
		if slot.Duration != event.Duration {
			violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("event %d duration %d does not match timeslot %d duration %d", event.ID, event.Duration, slot.ID, slot.Duration)})
		}
		expected, ok := models.ExpectedSlotType(event.Duration)
		if ok && slot.SlotType != expected {
			violations = append(violations, Violation{Rule: "P2", Detail: fmt.Sprintf("event %d expects slot_type %s, timeslot %d has %s", event.ID, expected, slot.ID, slot.SlotType)})
		}
	}
	return violations
}

// checkExclusivity enforces P3-P5: pairwise non-overlap over rooms,
// teachers, and batches.
func checkExclusivity(snap *catalog.Snapshot, assignment []models.Assignment) []Violation {
	var violations []Violation

	for i := 0; i < len(assignment); i++ {
		a := assignment[i]
		slotA, okA := snap.SlotByID[a.TimeslotID]
		eventA, okEA := snap.EventByID[a.EventID]
		if !okA || !okEA {
			continue
		}
		for j := i + 1; j < len(assignment); j++ {
			b := assignment[j]
			if a.EventID == b.EventID {
				continue
			}
			slotB, okB := snap.SlotByID[b.TimeslotID]
			eventB, okEB := snap.EventByID[b.EventID]
			if !okB || !okEB {
				continue
			}
			if !slotA.Overlaps(slotB) {
				continue
			}

			if a.RoomID == b.RoomID {
				violations = append(violations, Violation{Rule: "P3", Detail: fmt.Sprintf("room %d double-booked by events %d and %d", a.RoomID, a.EventID, b.EventID)})
			}
			if a.TeacherID == b.TeacherID {
				violations = append(violations, Violation{Rule: "P4", Detail: fmt.Sprintf("teacher %d double-booked by events %d and %d", a.TeacherID, a.EventID, b.EventID)})
			}
			if sharesBatch(eventA, eventB) {
				violations = append(violations, Violation{Rule: "P5", Detail: fmt.Sprintf("a shared batch is double-booked by events %d and %d", a.EventID, b.EventID)})
			}
		}
	}
	return violations
}

func sharesBatch(a, b models.Event) bool {
	set := make(map[int64]struct{}, len(a.BatchIDs))
	for _, id := range a.BatchIDs {
		set[id] = struct{}{}
	}
	for _, id := range b.BatchIDs {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// checkWorkload enforces P6: per-teacher weekly hour cap.
func checkWorkload(snap *catalog.Snapshot, assignment []models.Assignment) []Violation {
	var violations []Violation
	hours := make(map[int64]int)
	for _, row := range assignment {
		event, ok := snap.EventByID[row.EventID]
		if !ok {
			continue
		}
		hours[row.TeacherID] += event.Duration
	}
	for teacherID, total := range hours {
		teacher, ok := snap.TeacherByID[teacherID]
		if !ok {
			continue
		}
		max := teacher.MaxHours
		if max <= 0 {
			max = models.DefaultTeacherMaxHours
		}
		if total > max {
			violations = append(violations, Violation{Rule: "P6", Detail: fmt.Sprintf("teacher %d (%s) has %d scheduled hours, exceeding cap %d", teacherID, teacher.Name, total, max)})
		}
	}
	return violations
}

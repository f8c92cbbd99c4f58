// Package domainbuilder implements the Domain Builder (§4.2): for each
// event it enumerates the admissible (teacher, room, timeslot) candidates
// under hard per-event filters, using pre-filtered indices instead of a
// materialized Cartesian product (§9).
package domainbuilder

import (
	"fmt"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/models"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
)

// Candidate is one admissible (teacher, room, timeslot) triple for an event.
type Candidate struct {
	EventID    int64
	TeacherID  int64
	RoomID     int64
	TimeslotID int64
}

// Domain is the full set of candidates, indexed by event id.
type Domain struct {
	ByEvent map[int64][]Candidate
}

// EmptyDomainDetail describes why an event had zero candidates, surfaced
// in diagnostics per §4.2.
type EmptyDomainDetail struct {
	EventID          int64
	EventName        string
	MatchingRooms    int
	MatchingSlots    int
	QualifiedTeacher int
}

// Build enumerates candidates for every event in the snapshot. It fails
// fast (CatalogIntegrityError) if an event's course is missing or
// unqualified, and reports EmptyDomainError with a per-event diagnostic if
// any event ends up with zero candidates after filtering.
func Build(snap *catalog.Snapshot) (*Domain, error) {
	teachersByCourse := snap.TeachersByCourse()
	roomsByType := snap.RoomsByType()
	slotsByKey := snap.SlotsByDurationAndType()

	domain := &Domain{ByEvent: make(map[int64][]Candidate, len(snap.Events))}
	var emptyDomains []EmptyDomainDetail

	for _, event := range snap.Events {
		course, ok := snap.CourseByID[event.CourseID]
		if !ok {
			return nil, appErrors.Wrap(
				fmt.Errorf("event %d (%s) references missing course %d", event.ID, event.Name, event.CourseID),
				appErrors.ErrCatalogIntegrity.Code, appErrors.ErrCatalogIntegrity.Status,
				fmt.Sprintf("event %q has no course", event.Name),
			)
		}

		teacherIDs := teachersByCourse[course.ID]
		if len(teacherIDs) == 0 {
			return nil, appErrors.Wrap(
				fmt.Errorf("course %d (%s) has no qualified teachers, needed by event %d", course.ID, course.Name, event.ID),
				appErrors.ErrCatalogIntegrity.Code, appErrors.ErrCatalogIntegrity.Status,
				fmt.Sprintf("course %q has no qualified teachers", course.Name),
			)
		}

		expectedSlotType, ok := models.ExpectedSlotType(event.Duration)
		if !ok {
			return nil, appErrors.Wrap(
				fmt.Errorf("event %d (%s) has unsupported duration %d", event.ID, event.Name, event.Duration),
				appErrors.ErrCatalogIntegrity.Code, appErrors.ErrCatalogIntegrity.Status,
				fmt.Sprintf("event %q has an unsupported duration", event.Name),
			)
		}

		matchingRooms := filterRooms(roomsByType[event.RequiredRoomType], event.TotalSize)
		matchingSlots := slotsByKey[catalog.SlotKey{Duration: event.Duration, SlotType: expectedSlotType}]

		var candidates []Candidate
		for _, teacherID := range teacherIDs {
			for _, room := range matchingRooms {
				for _, slot := range matchingSlots {
					candidates = append(candidates, Candidate{
						EventID:    event.ID,
						TeacherID:  teacherID,
						RoomID:     room.ID,
						TimeslotID: slot.ID,
					})
				}
			}
		}

		if len(candidates) == 0 {
			emptyDomains = append(emptyDomains, EmptyDomainDetail{
				EventID:          event.ID,
				EventName:        event.Name,
				MatchingRooms:    len(matchingRooms),
				MatchingSlots:    len(matchingSlots),
				QualifiedTeacher: len(teacherIDs),
			})
			continue
		}

		domain.ByEvent[event.ID] = candidates
	}

	if len(emptyDomains) > 0 {
		return nil, appErrors.Wrap(
			fmt.Errorf("%d event(s) have zero admissible candidates: %v", len(emptyDomains), emptyDomains),
			appErrors.ErrEmptyDomain.Code, appErrors.ErrEmptyDomain.Status,
			"one or more events have no feasible candidates",
		)
	}

	return domain, nil
}

func filterRooms(rooms []models.Room, minCapacity int) []models.Room {
	var out []models.Room
	for _, r := range rooms {
		if r.Capacity >= minCapacity {
			out = append(out, r)
		}
	}
	return out
}

package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/domainbuilder"
	"github.com/campus-timetable/scheduler/internal/models"
)

// twoEventsOneRoomOverlap builds a snapshot where two events can only be
// placed in the same room, on overlapping timeslots, with different
// teachers — so only C2 (room) should group them into a clique.
func twoEventsOneRoomOverlap() (*catalog.Snapshot, *domainbuilder.Domain) {
	slotA := models.Timeslot{ID: 1, Day: models.Monday, StartHour: 9, EndHour: 10, Duration: 1, SlotType: models.SlotTypeLecture}
	event1 := models.Event{ID: 1, Name: "E1", Duration: 1, CourseID: 1, BatchIDs: []int64{1}}
	event2 := models.Event{ID: 2, Name: "E2", Duration: 1, CourseID: 2, BatchIDs: []int64{2}}

	snap := &catalog.Snapshot{
		Teachers: []models.Teacher{{ID: 1, MaxHours: 16}, {ID: 2, MaxHours: 16}},
		Events:   []models.Event{event1, event2},
		SlotByID: map[int64]models.Timeslot{1: slotA},
		EventByID: map[int64]models.Event{
			1: event1,
			2: event2,
		},
	}

	domain := &domainbuilder.Domain{ByEvent: map[int64][]domainbuilder.Candidate{
		1: {{EventID: 1, TeacherID: 1, RoomID: 1, TimeslotID: 1}},
		2: {{EventID: 2, TeacherID: 2, RoomID: 1, TimeslotID: 1}},
	}}
	return snap, domain
}

func TestBuildGroupsOverlappingRoomCandidatesIntoAClique(t *testing.T) {
	snap, domain := twoEventsOneRoomOverlap()
	model := Build(snap, domain)

	require.Len(t, model.Vars, 2)
	require.NotEmpty(t, model.Cliques)

	var sawPeer bool
	model.ForEachClique(0, func(peer int) {
		if peer == 1 {
			sawPeer = true
		}
	})
	require.True(t, sawPeer, "candidates sharing a room and overlapping timeslot must share a clique")
}

func TestBuildDoesNotCliqueNonOverlappingCandidates(t *testing.T) {
	slotA := models.Timeslot{ID: 1, Day: models.Monday, StartHour: 9, EndHour: 10, Duration: 1, SlotType: models.SlotTypeLecture}
	slotB := models.Timeslot{ID: 2, Day: models.Monday, StartHour: 10, EndHour: 11, Duration: 1, SlotType: models.SlotTypeLecture}
	event1 := models.Event{ID: 1, Name: "E1", Duration: 1, CourseID: 1, BatchIDs: []int64{1}}
	event2 := models.Event{ID: 2, Name: "E2", Duration: 1, CourseID: 2, BatchIDs: []int64{2}}

	snap := &catalog.Snapshot{
		Teachers:  []models.Teacher{{ID: 1, MaxHours: 16}, {ID: 2, MaxHours: 16}},
		Events:    []models.Event{event1, event2},
		SlotByID:  map[int64]models.Timeslot{1: slotA, 2: slotB},
		EventByID: map[int64]models.Event{1: event1, 2: event2},
	}
	domain := &domainbuilder.Domain{ByEvent: map[int64][]domainbuilder.Candidate{
		1: {{EventID: 1, TeacherID: 1, RoomID: 1, TimeslotID: 1}},
		2: {{EventID: 2, TeacherID: 2, RoomID: 1, TimeslotID: 2}},
	}}

	model := Build(snap, domain)
	for _, clique := range model.Cliques {
		require.LessOrEqual(t, len(clique), 1, "adjacent non-overlapping timeslots must not share a clique")
	}
}

func TestBuildDefaultsTeacherMaxHours(t *testing.T) {
	snap := &catalog.Snapshot{
		Teachers:  []models.Teacher{{ID: 1, MaxHours: 0}},
		EventByID: map[int64]models.Event{},
	}
	domain := &domainbuilder.Domain{ByEvent: map[int64][]domainbuilder.Candidate{}}

	model := Build(snap, domain)
	require.Equal(t, models.DefaultTeacherMaxHours, model.TeacherMaxHours[1])
}

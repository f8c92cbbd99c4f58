// Package constraint encodes the Constraint Model (§4.3): a boolean
// decision variable per admissible candidate, plus C1 (exactly-one-per-
// event), C2-C4 (pairwise non-overlap over rooms/teachers/batches,
// encoded as interval-scheduling cliques rather than literal all-pairs),
// and C5 (teacher weekly workload cap).
package constraint

import (
	"sort"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/domainbuilder"
	"github.com/campus-timetable/scheduler/internal/models"
)

// Model is the encoded constraint system ready for the Search Driver.
type Model struct {
	// Vars is the flat variable table; VarID is its index.
	Vars []domainbuilder.Candidate
	// EventVars maps an event id to the indices of its candidate variables
	// (the C1 group: exactly one of these must be chosen).
	EventVars map[int64][]int
	// EventOrder lists event ids in a stable order, used as the initial
	// search frontier before most-constrained-variable sorting.
	EventOrder []int64

	// Cliques holds every "at most one" group produced by the room,
	// teacher, and batch interval decompositions (C2-C4). VarCliques is
	// the reverse index: for a variable, which cliques it belongs to.
	Cliques    [][]int
	VarCliques [][]int

	// VarTeacher and VarDuration are parallel to Vars, used for C5.
	VarTeacher      []int64
	VarDuration     []int
	TeacherMaxHours map[int64]int
}

// ForEachClique invokes fn for every other variable that shares a clique
// (room, teacher, or batch overlap group) with varIdx. Used by the Search
// Driver to block/unblock peers on placement/backtrack.
func (m *Model) ForEachClique(varIdx int, fn func(peer int)) {
	for _, cliqueIdx := range m.VarCliques[varIdx] {
		for _, peer := range m.Cliques[cliqueIdx] {
			if peer == varIdx {
				continue
			}
			fn(peer)
		}
	}
}

// Build constructs a Model from a domain snapshot, grounded on the
// snapshot's event/teacher/timeslot indices (§9: no dynamic relational
// navigation at search time).
func Build(snap *catalog.Snapshot, domain *domainbuilder.Domain) *Model {
	m := &Model{
		EventVars:       make(map[int64][]int),
		TeacherMaxHours: make(map[int64]int),
	}

	eventIDs := make([]int64, 0, len(domain.ByEvent))
	for eid := range domain.ByEvent {
		eventIDs = append(eventIDs, eid)
	}
	sort.Slice(eventIDs, func(i, j int) bool { return eventIDs[i] < eventIDs[j] })
	m.EventOrder = eventIDs

	for _, eid := range eventIDs {
		cands := domain.ByEvent[eid]
		duration := snap.EventByID[eid].Duration
		for _, c := range cands {
			idx := len(m.Vars)
			m.Vars = append(m.Vars, c)
			m.EventVars[eid] = append(m.EventVars[eid], idx)
			m.VarTeacher = append(m.VarTeacher, c.TeacherID)
			m.VarDuration = append(m.VarDuration, duration)
		}
	}

	for _, t := range snap.Teachers {
		max := t.MaxHours
		if max <= 0 {
			max = models.DefaultTeacherMaxHours
		}
		m.TeacherMaxHours[t.ID] = max
	}

	m.VarCliques = make([][]int, len(m.Vars))

	addCliques := func(groups map[int64][]int) {
		for _, vars := range groups {
			for _, clique := range intervalCliques(vars, m.Vars, snap.SlotByID) {
				if len(clique) < 2 {
					continue
				}
				cliqueIdx := len(m.Cliques)
				m.Cliques = append(m.Cliques, clique)
				for _, v := range clique {
					m.VarCliques[v] = append(m.VarCliques[v], cliqueIdx)
				}
			}
		}
	}

	addCliques(groupByKey(m.Vars, func(c domainbuilder.Candidate) int64 { return c.RoomID }))
	addCliques(groupByKey(m.Vars, func(c domainbuilder.Candidate) int64 { return c.TeacherID }))
	addCliques(groupByBatch(snap, domain, m))

	return m
}

// groupByKey groups variable indices by an arbitrary int64 key derived
// from their candidate (e.g. RoomID or TeacherID).
func groupByKey(vars []domainbuilder.Candidate, key func(domainbuilder.Candidate) int64) map[int64][]int {
	out := make(map[int64][]int)
	for i, c := range vars {
		k := key(c)
		out[k] = append(out[k], i)
	}
	return out
}

// groupByBatch groups variable indices by each batch id their event
// includes; a variable whose event covers two batches appears in both
// groups, which is exactly what C4 requires.
func groupByBatch(snap *catalog.Snapshot, domain *domainbuilder.Domain, m *Model) map[int64][]int {
	out := make(map[int64][]int)
	for _, eid := range m.EventOrder {
		event := snap.EventByID[eid]
		for _, varIdx := range m.EventVars[eid] {
			for _, bid := range event.BatchIDs {
				out[bid] = append(out[bid], varIdx)
			}
		}
	}
	return out
}

// intervalCliques implements the interval-scheduling decomposition: group
// is already fixed to one resource; here we further split by day (distinct
// days never overlap) and, per day, sweep a sorted-by-start list emitting
// one clique per distinct start point, using the classic property that
// those cliques collectively cover every overlapping pair in an interval
// graph without enumerating all O(k^2) pairs.
func intervalCliques(varIdx []int, vars []domainbuilder.Candidate, slots map[int64]models.Timeslot) [][]int {
	byDay := make(map[models.Weekday][]int)
	for _, v := range varIdx {
		slot := slots[vars[v].TimeslotID]
		byDay[slot.Day] = append(byDay[slot.Day], v)
	}

	var cliques [][]int
	for _, day := range byDay {
		sort.Slice(day, func(a, b int) bool {
			sa := slots[vars[day[a]].TimeslotID]
			sb := slots[vars[day[b]].TimeslotID]
			if sa.StartHour != sb.StartHour {
				return sa.StartHour < sb.StartHour
			}
			return sa.EndHour < sb.EndHour
		})

		var active []int
		lastStart := -1
		for _, v := range day {
			slot := slots[vars[v].TimeslotID]

			kept := active[:0]
			for _, a := range active {
				if slots[vars[a].TimeslotID].EndHour > slot.StartHour {
					kept = append(kept, a)
				}
			}
			active = kept
			active = append(active, v)

			if slot.StartHour != lastStart {
				clique := make([]int, len(active))
				copy(clique, active)
				cliques = append(cliques, clique)
				lastStart = slot.StartHour
			} else if len(cliques) > 0 {
				cliques[len(cliques)-1] = append([]int{}, active...)
			}
		}
	}
	return cliques
}

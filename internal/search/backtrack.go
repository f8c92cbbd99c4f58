// Package search implements the Search Driver (§4.4): a hand-rolled,
// complete backtracking search over events ordered by most-constrained-
// variable, with clique-based propagation pruning, raced across a bounded
// worker pool against a shared time budget.
package search

import (
	"context"
	"math/rand"
	"sort"

	"github.com/campus-timetable/scheduler/internal/constraint"
)

// Verdict is the outcome of one search attempt.
type Verdict string

const (
	Feasible   Verdict = "FEASIBLE"
	Infeasible Verdict = "INFEASIBLE"
	Timeout    Verdict = "TIMEOUT"
)

// Result is what one worker (or the driver as a whole) reports.
type Result struct {
	Verdict Verdict
	// Chosen maps event id to the winning variable index, populated only
	// when Verdict == Feasible.
	Chosen map[int64]int
}

// worker runs one complete backtracking search with a randomized variable
// and candidate order, honoring ctx for the shared time budget.
type worker struct {
	model       *constraint.Model
	ctx         context.Context
	rng         *rand.Rand
	resortEvery int

	blocked      []int           // per-var count of active clique conflicts
	teacherHours map[int64]int   // running workload per teacher
	chosen       map[int64]int   // eventID -> varIndex, partial assignment
	nodesVisited int
	timedOut     bool
}

func newWorker(model *constraint.Model, ctx context.Context, seed int64, resortEvery int) *worker {
	if resortEvery <= 0 {
		resortEvery = 25
	}
	return &worker{
		model:        model,
		ctx:          ctx,
		rng:          rand.New(rand.NewSource(seed)),
		resortEvery:  resortEvery,
		blocked:      make([]int, len(model.Vars)),
		teacherHours: make(map[int64]int),
		chosen:       make(map[int64]int, len(model.EventOrder)),
	}
}

// run executes the search to completion, timeout, or proven infeasibility.
func (w *worker) run() Result {
	order := make([]int64, len(w.model.EventOrder))
	copy(order, w.model.EventOrder)
	w.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	ok := w.solve(order, 0)
	if w.timedOut {
		return Result{Verdict: Timeout}
	}
	if !ok {
		return Result{Verdict: Infeasible}
	}
	return Result{Verdict: Feasible, Chosen: w.chosen}
}

// solve places events order[depth:] via chronological backtracking. It
// re-sorts the remaining frontier by live-candidate count (MCV) every
// resortEvery nodes.
func (w *worker) solve(order []int64, depth int) bool {
	if depth == len(order) {
		return true
	}

	w.nodesVisited++
	if w.nodesVisited%64 == 0 {
		select {
		case <-w.ctx.Done():
			w.timedOut = true
			return false
		default:
		}
	}
	if w.timedOut {
		return false
	}

	if w.nodesVisited%w.resortEvery == 0 {
		w.sortByLiveCandidates(order[depth:])
	}

	eventID := order[depth]
	candidates := w.liveCandidates(eventID)
	w.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	for _, varIdx := range candidates {
		if w.timedOut {
			return false
		}
		w.place(eventID, varIdx)
		if w.solve(order, depth+1) {
			return true
		}
		w.unplace(eventID, varIdx)
	}
	return false
}

// liveCandidates returns the variables for an event that are not blocked
// by an already-chosen clique peer and do not blow the teacher's weekly
// cap (C5), i.e. the candidates that survive constraint propagation.
func (w *worker) liveCandidates(eventID int64) []int {
	var out []int
	for _, v := range w.model.EventVars[eventID] {
		if w.blocked[v] > 0 {
			continue
		}
		teacherID := w.model.VarTeacher[v]
		duration := w.model.VarDuration[v]
		if w.teacherHours[teacherID]+duration > w.model.TeacherMaxHours[teacherID] {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (w *worker) sortByLiveCandidates(remaining []int64) {
	counts := make(map[int64]int, len(remaining))
	for _, eid := range remaining {
		counts[eid] = len(w.liveCandidates(eid))
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return counts[remaining[i]] < counts[remaining[j]]
	})
}

// place commits a candidate: blocks its clique peers and books the
// teacher's workload.
func (w *worker) place(eventID int64, varIdx int) {
	w.chosen[eventID] = varIdx
	w.model.ForEachClique(varIdx, func(peer int) {
		w.blocked[peer]++
	})
	w.teacherHours[w.model.VarTeacher[varIdx]] += w.model.VarDuration[varIdx]
}

// unplace undoes place, restoring the state for the next candidate.
func (w *worker) unplace(eventID int64, varIdx int) {
	delete(w.chosen, eventID)
	w.model.ForEachClique(varIdx, func(peer int) {
		w.blocked[peer]--
	})
	w.teacherHours[w.model.VarTeacher[varIdx]] -= w.model.VarDuration[varIdx]
}

package prep

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-timetable/scheduler/internal/catalog"
)

// Result summarizes one preparation run for the HTTP layer (§6).
type Result struct {
	TimeslotCount int
	EventCount    int
}

// Engine drives timeslot and event (re)generation against a Catalog Store.
// It is idempotent given the same catalog (P8): regenerating twice without
// catalog changes produces the same timeslot and event sets.
type Engine struct {
	store  catalog.Store
	logger *zap.Logger
}

// NewEngine constructs a Preparation Engine.
func NewEngine(store catalog.Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Run clears prior timeslots and events and regenerates them from the
// current courses and batches.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	snap, err := catalog.Load(ctx, e.store)
	if err != nil {
		return nil, err
	}

	timeslots := GenerateTimeslots()
	events := GenerateEvents(snap.Courses, snap.Batches)

	if err := e.store.ReplaceTimeslotsAndEvents(ctx, timeslots, events); err != nil {
		return nil, err
	}

	e.logger.Info("preparation engine run complete",
		zap.Int("timeslot_count", len(timeslots)),
		zap.Int("event_count", len(events)),
	)

	return &Result{TimeslotCount: len(timeslots), EventCount: len(events)}, nil
}

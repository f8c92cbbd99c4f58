package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/constraint"
	"github.com/campus-timetable/scheduler/internal/domainbuilder"
	"github.com/campus-timetable/scheduler/internal/format"
	"github.com/campus-timetable/scheduler/internal/models"
	"github.com/campus-timetable/scheduler/internal/prep"
	"github.com/campus-timetable/scheduler/internal/search"
	"github.com/campus-timetable/scheduler/internal/verify"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
)

// TimetableServiceConfig tunes the solve pipeline.
type TimetableServiceConfig struct {
	TimeBudget  time.Duration
	Workers     int
	ResortEvery int
	Debug       bool
}

// TimetableService orchestrates Preparation -> Domain Builder ->
// Constraint Model -> Search Driver -> Verifier -> atomic publish (§2
// data flow). It is the single entry point for `/admin/auto-prepare/` and
// `/generate-timetable/`.
type TimetableService struct {
	store   catalog.Store
	prep    *prep.Engine
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     TimetableServiceConfig
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(store catalog.Store, prepEngine *prep.Engine, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg TimetableServiceConfig) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = 120 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.ResortEvery <= 0 {
		cfg.ResortEvery = 25
	}
	return &TimetableService{store: store, prep: prepEngine, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Prepare runs the Preparation Engine, regenerating timeslots and events.
func (s *TimetableService) Prepare(ctx context.Context) (*prep.Result, error) {
	return s.prep.Run(ctx)
}

// GenerateResult is returned by Generate on success.
type GenerateResult struct {
	Assignment []models.Assignment
	View       models.TimetableView
}

// Generate runs one full solve: Domain Builder, Constraint Model, Search
// Driver, Post-Solve Verifier, then publishes the assignment atomically
// and invalidates cached derived views (§5). Concurrent solves must be
// serialized by the caller; the HTTP layer rejects a second solve while
// one is already in flight.
func (s *TimetableService) Generate(ctx context.Context) (*GenerateResult, error) {
	started := time.Now().UTC()

	snap, err := catalog.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}

	domain, err := domainbuilder.Build(snap)
	if err != nil {
		s.auditRun(ctx, started, models.VerdictError, len(snap.Events), err.Error())
		return nil, err
	}

	model := constraint.Build(snap, domain)
	domainSize := len(model.Vars)

	driver := search.NewDriver(s.cfg.Workers, s.cfg.ResortEvery, s.cfg.TimeBudget, s.logger)
	result := driver.Solve(ctx, model)
	duration := time.Since(started)
	if s.metrics != nil {
		s.metrics.RecordSolve(string(result.Verdict), duration, domainSize)
	}

	switch result.Verdict {
	case search.Timeout:
		s.auditRun(ctx, started, models.VerdictTimeout, len(snap.Events), "search driver exhausted time budget")
		return nil, appErrors.ErrSolveTimeout
	case search.Infeasible:
		s.auditRun(ctx, started, models.VerdictInfeasible, len(snap.Events), "no feasible assignment under current constraints")
		return nil, appErrors.ErrInfeasible
	}

	rows := toAssignmentRows(model, result.Chosen)

	if err := verify.Check(snap, rows); err != nil {
		s.auditRun(ctx, started, models.VerdictError, len(snap.Events), err.Error())
		return nil, err
	}

	if err := s.store.ReplaceAssignment(ctx, rows); err != nil {
		return nil, fmt.Errorf("publish assignment: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "timetable:*")
	}

	s.auditRun(ctx, started, models.VerdictFeasible, len(snap.Events), "")

	view := format.Timetable(snap, rows)
	return &GenerateResult{Assignment: rows, View: view}, nil
}

func (s *TimetableService) auditRun(ctx context.Context, started time.Time, verdict models.SolveVerdict, eventCount int, diagnostics string) {
	run := &models.SolverRun{
		StartedAt:   started,
		FinishedAt:  time.Now().UTC(),
		Verdict:     verdict,
		EventCount:  eventCount,
		Diagnostics: diagnostics,
	}
	if err := s.store.CreateSolverRun(ctx, run); err != nil {
		s.logger.Warn("failed to persist solve_runs audit row", zap.Error(err))
	}
}

func toAssignmentRows(model *constraint.Model, chosen map[int64]int) []models.Assignment {
	rows := make([]models.Assignment, 0, len(chosen))
	for eventID, varIdx := range chosen {
		cand := model.Vars[varIdx]
		rows = append(rows, models.Assignment{
			EventID:    eventID,
			TeacherID:  cand.TeacherID,
			RoomID:     cand.RoomID,
			TimeslotID: cand.TimeslotID,
		})
	}
	return rows
}

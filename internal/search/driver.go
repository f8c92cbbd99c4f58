package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campus-timetable/scheduler/internal/constraint"
)

// Driver dispatches a bounded pool of workers, each running a complete
// backtracking search with an independently perturbed variable order,
// racing against a shared time budget (§4.4). The first worker to report
// FEASIBLE wins and the rest are cancelled; UNSAT is only reported once
// every worker has exhausted its own search tree.
type Driver struct {
	workers     int
	resortEvery int
	timeBudget  time.Duration
	logger      *zap.Logger
}

// NewDriver constructs a Search Driver.
func NewDriver(workers, resortEvery int, timeBudget time.Duration, logger *zap.Logger) *Driver {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{workers: workers, resortEvery: resortEvery, timeBudget: timeBudget, logger: logger}
}

// Solve runs the racing worker pool against model and returns the verdict.
// It never publishes a partial assignment: Result.Chosen is populated only
// for Verdict == Feasible.
func (d *Driver) Solve(ctx context.Context, model *constraint.Model) Result {
	if len(model.EventOrder) == 0 {
		return Result{Verdict: Feasible, Chosen: map[int64]int{}}
	}

	deadline := time.Now().Add(d.timeBudget)
	searchCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	results := make(chan Result, d.workers)
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			w := newWorker(model, searchCtx, seed, d.resortEvery)
			results <- w.run()
		}(int64(i))
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var sawTimeout bool
	var feasible *Result
	for res := range results {
		switch res.Verdict {
		case Feasible:
			if feasible == nil {
				r := res
				feasible = &r
				cancel()
			}
		case Timeout:
			sawTimeout = true
		}
	}

	if feasible != nil {
		d.logger.Info("search driver found a feasible assignment")
		return *feasible
	}
	if sawTimeout {
		d.logger.Warn("search driver exhausted its time budget without a verdict")
		return Result{Verdict: Timeout}
	}
	d.logger.Info("search driver proved infeasibility across all workers")
	return Result{Verdict: Infeasible}
}

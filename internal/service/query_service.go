package service

import (
	"context"
	"strconv"
	"time"

	"github.com/campus-timetable/scheduler/internal/catalog"
	"github.com/campus-timetable/scheduler/internal/format"
	"github.com/campus-timetable/scheduler/internal/freeblock"
	"github.com/campus-timetable/scheduler/internal/models"
	appErrors "github.com/campus-timetable/scheduler/pkg/errors"
)

// QueryServiceConfig tunes derived-view caching.
type QueryServiceConfig struct {
	CacheTTL time.Duration
}

// QueryService serves the read-only timetable views (§6 GET endpoints):
// the full grid, a teacher's slice, a batch's slice, and a batch's free
// blocks. Views are derived from the published assignment and cached
// behind the shared CacheService, invalidated whenever Generate publishes
// a new assignment (TimetableService.Generate calls cache.Invalidate).
type QueryService struct {
	store catalog.Store
	cache *CacheService
	cfg   QueryServiceConfig
}

// NewQueryService constructs a QueryService.
func NewQueryService(store catalog.Store, cache *CacheService, cfg QueryServiceConfig) *QueryService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &QueryService{store: store, cache: cache, cfg: cfg}
}

// FullTimetable returns the complete five-day grid.
func (s *QueryService) FullTimetable(ctx context.Context) (models.TimetableView, error) {
	var view models.TimetableView
	const key = "timetable:full"
	if hit, err := s.cache.Get(ctx, key, &view); err == nil && hit {
		return view, nil
	}

	snap, assignment, err := s.loadAssignment(ctx)
	if err != nil {
		return models.TimetableView{}, err
	}
	view = format.Timetable(snap, assignment)
	_ = s.cache.Set(ctx, key, view, s.cfg.CacheTTL)
	return view, nil
}

// TeacherTimetable returns the slice of the grid assigned to teacherID.
func (s *QueryService) TeacherTimetable(ctx context.Context, teacherID int64) (models.TimetableView, error) {
	var view models.TimetableView
	key := cacheKeyForTeacher(teacherID)
	if hit, err := s.cache.Get(ctx, key, &view); err == nil && hit {
		return view, nil
	}

	snap, assignment, err := s.loadAssignment(ctx)
	if err != nil {
		return models.TimetableView{}, err
	}
	if _, ok := snap.TeacherByID[teacherID]; !ok {
		return models.TimetableView{}, appErrors.ErrNotFound
	}
	view = format.ForTeacher(snap, assignment, teacherID)
	_ = s.cache.Set(ctx, key, view, s.cfg.CacheTTL)
	return view, nil
}

// BatchTimetable returns the slice of the grid scheduled for batchID.
func (s *QueryService) BatchTimetable(ctx context.Context, batchID int64) (models.TimetableView, error) {
	var view models.TimetableView
	key := cacheKeyForBatch(batchID)
	if hit, err := s.cache.Get(ctx, key, &view); err == nil && hit {
		return view, nil
	}

	snap, assignment, err := s.loadAssignment(ctx)
	if err != nil {
		return models.TimetableView{}, err
	}
	if _, ok := snap.BatchByID[batchID]; !ok {
		return models.TimetableView{}, appErrors.ErrNotFound
	}
	view = format.ForBatch(snap, assignment, batchID)
	_ = s.cache.Set(ctx, key, view, s.cfg.CacheTTL)
	return view, nil
}

// BatchFreeSlots returns batchID's contiguous free intervals per day (§4.6).
func (s *QueryService) BatchFreeSlots(ctx context.Context, batchID int64) ([]models.FreeInterval, error) {
	var free []models.FreeInterval
	key := cacheKeyForFreeSlots(batchID)
	if hit, err := s.cache.Get(ctx, key, &free); err == nil && hit {
		return free, nil
	}

	snap, err := catalog.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.BatchByID[batchID]; !ok {
		return nil, appErrors.ErrNotFound
	}
	assignment, err := s.store.ReadAssignment(ctx)
	if err != nil {
		return nil, err
	}
	free = freeblock.Extract(snap, assignment, batchID)
	_ = s.cache.Set(ctx, key, free, s.cfg.CacheTTL)
	return free, nil
}

func (s *QueryService) loadAssignment(ctx context.Context) (*catalog.Snapshot, []models.Assignment, error) {
	snap, err := catalog.Load(ctx, s.store)
	if err != nil {
		return nil, nil, err
	}
	assignment, err := s.store.ReadAssignment(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap, assignment, nil
}

func cacheKeyForTeacher(id int64) string {
	return "timetable:teacher:" + strconv.FormatInt(id, 10)
}

func cacheKeyForBatch(id int64) string {
	return "timetable:batch:" + strconv.FormatInt(id, 10)
}

func cacheKeyForFreeSlots(id int64) string {
	return "timetable:free-slots:" + strconv.FormatInt(id, 10)
}

// Package catalog defines the storage contract the solver core and the
// preparation pipeline depend on. It deliberately says nothing about
// PostgreSQL; internal/repository.CatalogRepository is the concrete
// implementation wired in main.go.
package catalog

import (
	"context"

	"github.com/campus-timetable/scheduler/internal/models"
)

// Store is the abstract Catalog operations consumed by the core (§6).
type Store interface {
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListBatches(ctx context.Context) ([]models.Batch, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListTimeslots(ctx context.Context) ([]models.Timeslot, error)
	ListEvents(ctx context.Context) ([]models.Event, error)

	ReadAssignment(ctx context.Context) ([]models.Assignment, error)
	ReplaceAssignment(ctx context.Context, rows []models.Assignment) error
	ReplaceTimeslotsAndEvents(ctx context.Context, timeslots []models.Timeslot, events []models.Event) error

	CreateSolverRun(ctx context.Context, run *models.SolverRun) error
}

// Snapshot is a read-only, point-in-time view of the catalog, fetched once
// per solve or per query so the rest of the pipeline never re-reads
// storage mid-operation (§5 ordering guarantee: all reads before any write).
type Snapshot struct {
	Teachers  []models.Teacher
	Courses   []models.Course
	Batches   []models.Batch
	Rooms     []models.Room
	Timeslots []models.Timeslot
	Events    []models.Event

	TeacherByID map[int64]models.Teacher
	CourseByID  map[int64]models.Course
	BatchByID   map[int64]models.Batch
	RoomByID    map[int64]models.Room
	SlotByID    map[int64]models.Timeslot
	EventByID   map[int64]models.Event
}

// Load fetches every catalog collection and builds the id indices the rest
// of the core relies on instead of dynamic relational navigation (§9).
func Load(ctx context.Context, store Store) (*Snapshot, error) {
	teachers, err := store.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := store.ListBatches(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := store.ListTimeslots(ctx)
	if err != nil {
		return nil, err
	}
	events, err := store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Teachers:    teachers,
		Courses:     courses,
		Batches:     batches,
		Rooms:       rooms,
		Timeslots:   slots,
		Events:      events,
		TeacherByID: make(map[int64]models.Teacher, len(teachers)),
		CourseByID:  make(map[int64]models.Course, len(courses)),
		BatchByID:   make(map[int64]models.Batch, len(batches)),
		RoomByID:    make(map[int64]models.Room, len(rooms)),
		SlotByID:    make(map[int64]models.Timeslot, len(slots)),
		EventByID:   make(map[int64]models.Event, len(events)),
	}
	for _, t := range teachers {
		snap.TeacherByID[t.ID] = t
	}
	for _, c := range courses {
		snap.CourseByID[c.ID] = c
	}
	for _, b := range batches {
		snap.BatchByID[b.ID] = b
	}
	for _, r := range rooms {
		snap.RoomByID[r.ID] = r
	}
	for _, s := range slots {
		snap.SlotByID[s.ID] = s
	}
	for _, e := range events {
		snap.EventByID[e.ID] = e
	}
	return snap, nil
}

// TeachersByCourse indexes qualified teacher ids by course id.
func (s *Snapshot) TeachersByCourse() map[int64][]int64 {
	out := make(map[int64][]int64)
	for _, t := range s.Teachers {
		for _, cid := range t.CourseIDs {
			out[cid] = append(out[cid], t.ID)
		}
	}
	return out
}

// EventsByBatch indexes event ids by the batch ids they include.
func (s *Snapshot) EventsByBatch() map[int64][]int64 {
	out := make(map[int64][]int64)
	for _, e := range s.Events {
		for _, bid := range e.BatchIDs {
			out[bid] = append(out[bid], e.ID)
		}
	}
	return out
}

// RoomsByType indexes rooms by room_type.
func (s *Snapshot) RoomsByType() map[models.RoomType][]models.Room {
	out := make(map[models.RoomType][]models.Room)
	for _, r := range s.Rooms {
		out[r.RoomType] = append(out[r.RoomType], r)
	}
	return out
}

// SlotKey indexes timeslots by (duration, slot_type), the Domain Builder's
// filter granularity (§4.2).
type SlotKey struct {
	Duration int
	SlotType models.SlotType
}

// SlotsByDurationAndType groups timeslots by SlotKey.
func (s *Snapshot) SlotsByDurationAndType() map[SlotKey][]models.Timeslot {
	out := make(map[SlotKey][]models.Timeslot)
	for _, t := range s.Timeslots {
		key := SlotKey{Duration: t.Duration, SlotType: t.SlotType}
		out[key] = append(out[key], t)
	}
	return out
}

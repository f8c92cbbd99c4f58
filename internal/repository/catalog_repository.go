package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-timetable/scheduler/internal/models"
)

// CatalogRepository is the PostgreSQL-backed implementation of the Catalog
// interface consumed by the solver core (§6 of the spec): it reads the
// teacher/course/batch/room/timeslot/event snapshot, and publishes
// assignments and regenerated timeslots/events atomically.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListTeachers returns every teacher along with its qualified course ids.
func (r *CatalogRepository) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	const query = `SELECT id, name, max_hours FROM teachers ORDER BY id`
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	links, err := r.teacherCourseLinks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		teachers[i].CourseIDs = links[teachers[i].ID]
	}
	return teachers, nil
}

func (r *CatalogRepository) teacherCourseLinks(ctx context.Context) (map[int64][]int64, error) {
	type row struct {
		TeacherID int64 `db:"teacher_id"`
		CourseID  int64 `db:"course_id"`
	}
	var rows []row
	const query = `SELECT teacher_id, course_id FROM teacher_courses ORDER BY teacher_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teacher_courses: %w", err)
	}
	out := make(map[int64][]int64, len(rows))
	for _, rr := range rows {
		out[rr.TeacherID] = append(out[rr.TeacherID], rr.CourseID)
	}
	return out, nil
}

// ListCourses returns every course along with its qualified teacher ids.
func (r *CatalogRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	const query = `SELECT id, name, credit_hours FROM courses ORDER BY id`
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	links, err := r.teacherCourseLinks(ctx)
	if err != nil {
		return nil, err
	}
	byCourse := make(map[int64][]int64)
	for teacherID, courseIDs := range links {
		for _, courseID := range courseIDs {
			byCourse[courseID] = append(byCourse[courseID], teacherID)
		}
	}
	for i := range courses {
		courses[i].TeacherIDs = byCourse[courses[i].ID]
	}
	return courses, nil
}

// ListBatches returns every batch, ordered by SortOrder then id so the
// Preparation Engine's pairing is deterministic (§9 Open Question).
func (r *CatalogRepository) ListBatches(ctx context.Context) ([]models.Batch, error) {
	var batches []models.Batch
	const query = `SELECT id, name, size, sort_order FROM batches ORDER BY sort_order, id`
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// ListRooms returns every room.
func (r *CatalogRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	const query = `SELECT id, name, capacity, room_type FROM rooms ORDER BY id`
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListTimeslots returns every timeslot.
func (r *CatalogRepository) ListTimeslots(ctx context.Context) ([]models.Timeslot, error) {
	var slots []models.Timeslot
	const query = `SELECT id, day, start_hour, end_hour, duration, slot_type FROM timeslots ORDER BY id`
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// ListEvents returns every event with its batch ids eagerly resolved.
func (r *CatalogRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	const query = `SELECT id, name, duration, required_room_type, total_size, course_id FROM events ORDER BY id`
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	type row struct {
		EventID int64 `db:"event_id"`
		BatchID int64 `db:"batch_id"`
	}
	var rows []row
	const linkQuery = `SELECT event_id, batch_id FROM event_batches ORDER BY event_id`
	if err := r.db.SelectContext(ctx, &rows, linkQuery); err != nil {
		return nil, fmt.Errorf("list event_batches: %w", err)
	}
	byEvent := make(map[int64][]int64, len(rows))
	for _, rr := range rows {
		byEvent[rr.EventID] = append(byEvent[rr.EventID], rr.BatchID)
	}
	for i := range events {
		events[i].BatchIDs = byEvent[events[i].ID]
	}
	return events, nil
}

// ReadAssignment returns the currently published assignment rows.
func (r *CatalogRepository) ReadAssignment(ctx context.Context) ([]models.Assignment, error) {
	var rows []models.Assignment
	const query = `SELECT event_id, teacher_id, room_id, timeslot_id FROM assignments ORDER BY event_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("read assignment: %w", err)
	}
	return rows, nil
}

// ReplaceAssignment atomically deletes the prior assignment set and inserts
// the new one. No partial assignment is ever visible (§5).
func (r *CatalogRepository) ReplaceAssignment(ctx context.Context, rows []models.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignment tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments`); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	const insert = `INSERT INTO assignments (event_id, teacher_id, room_id, timeslot_id) VALUES (:event_id, :teacher_id, :room_id, :timeslot_id)`
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert assignment for event %d: %w", row.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignment: %w", err)
	}
	return nil
}

// ReplaceTimeslotsAndEvents atomically clears and regenerates the timeslot
// and event catalogs, used by the Preparation Engine (§4.1). Events are
// inserted after timeslots so that any FK/ordering assumption holds; event
// batch links are inserted after the event rows exist.
func (r *CatalogRepository) ReplaceTimeslotsAndEvents(ctx context.Context, timeslots []models.Timeslot, events []models.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace prep tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments`); err != nil {
		return fmt.Errorf("clear assignments before regeneration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_batches`); err != nil {
		return fmt.Errorf("clear event_batches: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM timeslots`); err != nil {
		return fmt.Errorf("clear timeslots: %w", err)
	}

	const insertSlot = `INSERT INTO timeslots (day, start_hour, end_hour, duration, slot_type) VALUES (:day, :start_hour, :end_hour, :duration, :slot_type) RETURNING id`
	for i := range timeslots {
		rows, err := tx.NamedQuery(insertSlot, timeslots[i])
		if err != nil {
			return fmt.Errorf("insert timeslot: %w", err)
		}
		if rows.Next() {
			_ = rows.Scan(&timeslots[i].ID)
		}
		rows.Close()
	}

	const insertEvent = `INSERT INTO events (name, duration, required_room_type, total_size, course_id) VALUES (:name, :duration, :required_room_type, :total_size, :course_id) RETURNING id`
	const insertLink = `INSERT INTO event_batches (event_id, batch_id) VALUES ($1, $2)`
	for i := range events {
		rows, err := tx.NamedQuery(insertEvent, events[i])
		if err != nil {
			return fmt.Errorf("insert event %s: %w", events[i].Name, err)
		}
		if rows.Next() {
			_ = rows.Scan(&events[i].ID)
		}
		rows.Close()

		for _, batchID := range events[i].BatchIDs {
			if _, err := tx.ExecContext(ctx, insertLink, events[i].ID, batchID); err != nil {
				return fmt.Errorf("link event %d to batch %d: %w", events[i].ID, batchID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace prep: %w", err)
	}
	return nil
}

// CreateSolverRun persists a solve_runs audit row.
func (r *CatalogRepository) CreateSolverRun(ctx context.Context, run *models.SolverRun) error {
	const query = `INSERT INTO solve_runs (started_at, finished_at, verdict, event_count, diagnostics) VALUES (:started_at, :finished_at, :verdict, :event_count, :diagnostics) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("create solver run: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(&run.ID)
	}
	return nil
}

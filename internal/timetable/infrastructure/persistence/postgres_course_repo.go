package persistence

import (
	"context"
	"time"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCourseRepository implements domain.CourseRepository using PostgreSQL.
type PostgresCourseRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCourseRepository creates a new PostgreSQL course repository.
func NewPostgresCourseRepository(pool *pgxpool.Pool) *PostgresCourseRepository {
	return &PostgresCourseRepository{pool: pool}
}

// ListCourses returns every course scoped to scope.
func (r *PostgresCourseRepository) ListCourses(ctx context.Context, scope string) ([]*domain.Course, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT id, name, session_type, session_length_hours, sessions_required,
		       window_start, window_end, priority, computers_required, data_scope,
		       created_at, updated_at
		FROM courses WHERE data_scope = $1 ORDER BY name
	`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partials []postgresCoursePartial
	for rows.Next() {
		p, err := r.scanCourse(rows)
		if err != nil {
			return nil, err
		}
		partials = append(partials, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var courses []*domain.Course
	for _, p := range partials {
		equip, err := r.loadLabels(ctx, "course_equipment", "equipment", p.id)
		if err != nil {
			return nil, err
		}
		software, err := r.loadLabels(ctx, "course_software", "software", p.id)
		if err != nil {
			return nil, err
		}
		p.params.RequiredEquipment = equip
		p.params.RequiredSoftware = software
		courses = append(courses, domain.RehydrateCourse(p.id, p.params, p.createdAt, p.updatedAt))
	}
	return courses, nil
}

// ListClassLinks returns every class-group link declared for courseID.
func (r *PostgresCourseRepository) ListClassLinks(ctx context.Context, courseID uuid.UUID) ([]*domain.CourseClassLink, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT course_id, class_group_id, group_count, teacher_a_id, teacher_b_id
		FROM course_class_links WHERE course_id = $1 ORDER BY id
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.CourseClassLink
	for rows.Next() {
		var (
			cID, gID           uuid.UUID
			groupCount         int
			teacherA, teacherB *uuid.UUID
		)
		if err := rows.Scan(&cID, &gID, &groupCount, &teacherA, &teacherB); err != nil {
			return nil, err
		}
		links = append(links, domain.NewCourseClassLink(cID, gID, groupCount, derefUUID(teacherA), derefUUID(teacherB)))
	}
	return links, rows.Err()
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func (r *PostgresCourseRepository) loadLabels(ctx context.Context, table, column string, courseID uuid.UUID) ([]string, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, "SELECT "+column+" FROM "+table+" WHERE course_id = $1", courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// postgresCoursePartial holds a course row before its resource requirements
// (equipment, software) have been loaded from their child tables.
type postgresCoursePartial struct {
	id                   uuid.UUID
	params               domain.CourseParams
	createdAt, updatedAt time.Time
}

func (r *PostgresCourseRepository) scanCourse(rows pgx.Rows) (postgresCoursePartial, error) {
	var (
		id                                            uuid.UUID
		name, sessionType, scope                      string
		windowStart, windowEnd, createdAt, updatedAt  time.Time
		sessionLengthHours                            float64
		sessionsRequired, priority, computersRequired int
	)
	if err := rows.Scan(&id, &name, &sessionType, &sessionLengthHours, &sessionsRequired,
		&windowStart, &windowEnd, &priority, &computersRequired, &scope, &createdAt, &updatedAt); err != nil {
		return postgresCoursePartial{}, err
	}
	return postgresCoursePartial{
		id: id,
		params: domain.CourseParams{
			Name:               name,
			SessionType:        domain.SessionType(sessionType),
			SessionLengthHours: sessionLengthHours,
			SessionsRequired:   sessionsRequired,
			Window:             domain.DateRange{Start: windowStart, End: windowEnd},
			Priority:           priority,
			ComputersRequired:  computersRequired,
			DataScope:          scope,
		},
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

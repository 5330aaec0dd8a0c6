package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// SQLiteCourseRepository implements domain.CourseRepository using SQLite.
type SQLiteCourseRepository struct {
	dbConn *sql.DB
}

// NewSQLiteCourseRepository creates a new SQLite course repository.
func NewSQLiteCourseRepository(dbConn *sql.DB) *SQLiteCourseRepository {
	return &SQLiteCourseRepository{dbConn: dbConn}
}

// coursePartial holds a course row before its resource requirements
// (equipment, software) have been loaded from their child tables.
type coursePartial struct {
	id        uuid.UUID
	params    domain.CourseParams
	createdAt string
	updatedAt string
}

func (r *SQLiteCourseRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// ListCourses returns every course scoped to scope.
func (r *SQLiteCourseRepository) ListCourses(ctx context.Context, scope string) ([]*domain.Course, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, name, session_type, session_length_hours, sessions_required,
		       window_start, window_end, priority, computers_required, data_scope,
		       created_at, updated_at
		FROM courses WHERE data_scope = ? ORDER BY name
	`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partials []coursePartial
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
		courses = append(courses, domain.RehydrateCourse(p.id, p.params, parseTime(p.createdAt), parseTime(p.updatedAt)))
	}
	return courses, nil
}

// ListClassLinks returns every class-group link declared for courseID, in
// declaration order (insertion order, reflected by rowid).
func (r *SQLiteCourseRepository) ListClassLinks(ctx context.Context, courseID uuid.UUID) ([]*domain.CourseClassLink, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, course_id, class_group_id, group_count, teacher_a_id, teacher_b_id
		FROM course_class_links WHERE course_id = ? ORDER BY rowid
	`, courseID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.CourseClassLink
	for rows.Next() {
		var (
			idStr, cIDStr, gIDStr string
			groupCount            int
			teacherA, teacherB    sql.NullString
		)
		if err := rows.Scan(&idStr, &cIDStr, &gIDStr, &groupCount, &teacherA, &teacherB); err != nil {
			return nil, err
		}
		classGroupID, _ := uuid.Parse(gIDStr)
		link := domain.NewCourseClassLink(courseID, classGroupID, groupCount, parseUUID(teacherA), parseUUID(teacherB))
		links = append(links, link)
	}
	return links, rows.Err()
}

func parseUUID(ns sql.NullString) uuid.UUID {
	if !ns.Valid || ns.String == "" {
		return uuid.Nil
	}
	id, _ := uuid.Parse(ns.String)
	return id
}

func (r *SQLiteCourseRepository) loadLabels(ctx context.Context, table, column string, courseID uuid.UUID) ([]string, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, "SELECT "+column+" FROM "+table+" WHERE course_id = ?", courseID.String())
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

func (r *SQLiteCourseRepository) scanCourse(rows *sql.Rows) (coursePartial, error) {
	var (
		idStr, name, sessionType, windowStart, windowEnd, scope, createdAt, updatedAt string
		sessionLengthHours                                                           float64
		sessionsRequired, priority, computersRequired                                int
	)
	if err := rows.Scan(&idStr, &name, &sessionType, &sessionLengthHours, &sessionsRequired,
		&windowStart, &windowEnd, &priority, &computersRequired, &scope, &createdAt, &updatedAt); err != nil {
		return coursePartial{}, err
	}
	id, _ := uuid.Parse(idStr)
	return coursePartial{
		id: id,
		params: domain.CourseParams{
			Name:               name,
			SessionType:        domain.SessionType(sessionType),
			SessionLengthHours: sessionLengthHours,
			SessionsRequired:   sessionsRequired,
			Window:             domain.DateRange{Start: parseDate(windowStart), End: parseDate(windowEnd)},
			Priority:           priority,
			ComputersRequired:  computersRequired,
			DataScope:          scope,
		},
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

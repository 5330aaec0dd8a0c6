// Package persistence implements the timetable read model's repositories
// against both SQLite (zero-config) and PostgreSQL, selected by
// app.RepositoryFactory based on the configured driver.
package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

type sqliteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SQLiteTeacherRepository implements domain.TeacherRepository using SQLite.
type SQLiteTeacherRepository struct {
	dbConn *sql.DB
}

// NewSQLiteTeacherRepository creates a new SQLite teacher repository.
func NewSQLiteTeacherRepository(dbConn *sql.DB) *SQLiteTeacherRepository {
	return &SQLiteTeacherRepository{dbConn: dbConn}
}

func (r *SQLiteTeacherRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// ListTeachers returns every teacher along with their availability.
func (r *SQLiteTeacherRepository) ListTeachers(ctx context.Context) ([]*domain.Teacher, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at
		FROM teachers ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []*domain.Teacher
	for rows.Next() {
		t, err := r.scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, t := range teachers {
		if err := r.loadAvailability(ctx, t); err != nil {
			return nil, err
		}
	}
	return teachers, nil
}

// GetTeacher returns one teacher by id.
func (r *SQLiteTeacherRepository) GetTeacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	row := r.querier(ctx).QueryRowContext(ctx, `
		SELECT id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at
		FROM teachers WHERE id = ?
	`, id.String())

	t, err := r.scanTeacherRow(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadAvailability(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTeacherRepository) loadAvailability(ctx context.Context, t *domain.Teacher) error {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT weekday, start_time, end_time FROM teacher_weekly_availability WHERE teacher_id = ?
	`, t.ID().String())
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var weekday int
		var start, end string
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return err
		}
		t.AddWeeklyAvailability(domain.WeeklyInterval{Weekday: timeWeekday(weekday), StartTime: start, EndTime: end})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	unavailRows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT start_date, end_date FROM teacher_unavailabilities WHERE teacher_id = ?
	`, t.ID().String())
	if err != nil {
		return err
	}
	defer unavailRows.Close()
	for unavailRows.Next() {
		var start, end string
		if err := unavailRows.Scan(&start, &end); err != nil {
			return err
		}
		t.AddUnavailableRange(domain.DateRange{Start: parseDate(start), End: parseDate(end)})
	}
	return unavailRows.Err()
}

func (r *SQLiteTeacherRepository) scanTeacher(rows *sql.Rows) (*domain.Teacher, error) {
	var (
		id, name, windowStart, windowEnd, createdAt, updatedAt string
		maxWeeklyLoad                                          sql.NullInt64
	)
	if err := rows.Scan(&id, &name, &windowStart, &windowEnd, &maxWeeklyLoad, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return buildTeacher(id, name, windowStart, windowEnd, maxWeeklyLoad, createdAt, updatedAt), nil
}

func (r *SQLiteTeacherRepository) scanTeacherRow(row *sql.Row) (*domain.Teacher, error) {
	var (
		id, name, windowStart, windowEnd, createdAt, updatedAt string
		maxWeeklyLoad                                          sql.NullInt64
	)
	if err := row.Scan(&id, &name, &windowStart, &windowEnd, &maxWeeklyLoad, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return buildTeacher(id, name, windowStart, windowEnd, maxWeeklyLoad, createdAt, updatedAt), nil
}

func buildTeacher(id, name, windowStart, windowEnd string, maxWeeklyLoad sql.NullInt64, createdAt, updatedAt string) *domain.Teacher {
	teacherID, _ := uuid.Parse(id)
	return domain.RehydrateTeacher(
		teacherID, name, windowStart, windowEnd,
		nil, nil, intPtrFromSQL(maxWeeklyLoad),
		parseTime(createdAt), parseTime(updatedAt),
	)
}

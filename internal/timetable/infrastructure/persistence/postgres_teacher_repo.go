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

// PostgresTeacherRepository implements domain.TeacherRepository using PostgreSQL.
type PostgresTeacherRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTeacherRepository creates a new PostgreSQL teacher repository.
func NewPostgresTeacherRepository(pool *pgxpool.Pool) *PostgresTeacherRepository {
	return &PostgresTeacherRepository{pool: pool}
}

// ListTeachers returns every teacher along with their availability.
func (r *PostgresTeacherRepository) ListTeachers(ctx context.Context) ([]*domain.Teacher, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
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
func (r *PostgresTeacherRepository) GetTeacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	row := execer.QueryRow(ctx, `
		SELECT id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at
		FROM teachers WHERE id = $1
	`, id)

	var (
		teacherID            uuid.UUID
		name, start, end     string
		maxWeeklyLoad        *int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&teacherID, &name, &start, &end, &maxWeeklyLoad, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t := domain.RehydrateTeacher(teacherID, name, start, end, nil, nil, maxWeeklyLoad, createdAt, updatedAt)
	if err := r.loadAvailability(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresTeacherRepository) loadAvailability(ctx context.Context, t *domain.Teacher) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT weekday, start_time, end_time FROM teacher_weekly_availability WHERE teacher_id = $1
	`, t.ID())
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

	unavailRows, err := execer.Query(ctx, `
		SELECT start_date, end_date FROM teacher_unavailabilities WHERE teacher_id = $1
	`, t.ID())
	if err != nil {
		return err
	}
	defer unavailRows.Close()
	for unavailRows.Next() {
		var start, end time.Time
		if err := unavailRows.Scan(&start, &end); err != nil {
			return err
		}
		t.AddUnavailableRange(domain.DateRange{Start: start, End: end})
	}
	return unavailRows.Err()
}

func (r *PostgresTeacherRepository) scanTeacher(rows pgx.Rows) (*domain.Teacher, error) {
	var (
		id                   uuid.UUID
		name, start, end     string
		maxWeeklyLoad        *int
		createdAt, updatedAt time.Time
	)
	if err := rows.Scan(&id, &name, &start, &end, &maxWeeklyLoad, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateTeacher(id, name, start, end, nil, nil, maxWeeklyLoad, createdAt, updatedAt), nil
}

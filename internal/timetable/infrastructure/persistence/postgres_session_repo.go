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

// PostgresSessionRepository implements domain.SessionRepository using PostgreSQL.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgreSQL session repository.
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// ExistingSessions returns every session already placed for courseID.
func (r *PostgresSessionRepository) ExistingSessions(ctx context.Context, courseID uuid.UUID) ([]*domain.Session, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT id, course_id, class_group_id, subgroup_label, kind, teacher_id, secondary_teacher_id,
		       room_id, start_at, end_at, created_at, updated_at
		FROM sessions WHERE course_id = $1 ORDER BY start_at
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range sessions {
		attending, err := r.loadAttendance(ctx, s.ID())
		if err != nil {
			return nil, err
		}
		for _, classGroupID := range attending {
			s.AddAttendingClassGroup(classGroupID)
		}
	}
	return sessions, nil
}

// PersistSession inserts or updates a placed session, including its joint
// attendance links for CM sessions.
func (r *PostgresSessionRepository) PersistSession(ctx context.Context, session *domain.Session) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		INSERT INTO sessions (id, course_id, class_group_id, subgroup_label, kind, teacher_id,
		                       secondary_teacher_id, room_id, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			teacher_id = excluded.teacher_id,
			secondary_teacher_id = excluded.secondary_teacher_id,
			room_id = excluded.room_id,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			updated_at = excluded.updated_at
	`,
		session.ID(),
		session.CourseID(),
		session.ClassGroupID(),
		nullableLabel(session.SubgroupLabel()),
		string(session.Kind()),
		session.TeacherID(),
		nullableUUID(session.SecondaryTeacherID()),
		session.RoomID(),
		session.StartAt(),
		session.EndAt(),
		session.CreatedAt(),
		session.UpdatedAt(),
	)
	if err != nil {
		return err
	}

	if _, err := execer.Exec(ctx, `DELETE FROM attendance_links WHERE session_id = $1`, session.ID()); err != nil {
		return err
	}
	for _, classGroupID := range session.AttendingClassGroups() {
		if _, err := execer.Exec(ctx, `
			INSERT INTO attendance_links (session_id, class_group_id) VALUES ($1, $2)
		`, session.ID(), classGroupID); err != nil {
			return err
		}
	}
	return nil
}

// AllowedWeeks returns the weeks a course is restricted to, if any.
func (r *PostgresSessionRepository) AllowedWeeks(ctx context.Context, courseID uuid.UUID) ([]domain.AllowedWeek, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT week_start, quota FROM allowed_weeks WHERE course_id = $1 ORDER BY week_start
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []domain.AllowedWeek
	for rows.Next() {
		var weekStart time.Time
		var quota *int
		if err := rows.Scan(&weekStart, &quota); err != nil {
			return nil, err
		}
		weeks = append(weeks, domain.AllowedWeek{WeekStart: weekStart, Quota: quota})
	}
	return weeks, rows.Err()
}

func (r *PostgresSessionRepository) loadAttendance(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT class_group_id FROM attendance_links WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PostgresSessionRepository) scanSession(rows pgx.Rows) (*domain.Session, error) {
	var (
		id, courseID, classGroupID, teacherID, roomID uuid.UUID
		subgroupLabel                                 *string
		kind                                           string
		secondaryTeacherID                            *uuid.UUID
		startAt, endAt, createdAt, updatedAt           time.Time
	)
	if err := rows.Scan(&id, &courseID, &classGroupID, &subgroupLabel, &kind, &teacherID,
		&secondaryTeacherID, &roomID, &startAt, &endAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	label := ""
	if subgroupLabel != nil {
		label = *subgroupLabel
	}
	return domain.RehydrateSession(
		id, courseID, classGroupID,
		domain.SubgroupLabel(label),
		domain.SessionType(kind),
		teacherID, derefUUID(secondaryTeacherID), roomID,
		startAt, endAt,
		nil,
		createdAt, updatedAt,
	), nil
}

func nullableLabel(label domain.SubgroupLabel) interface{} {
	if label == "" {
		return nil
	}
	return string(label)
}

func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}

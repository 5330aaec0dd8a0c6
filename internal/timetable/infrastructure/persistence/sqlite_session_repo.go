package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// SQLiteSessionRepository implements domain.SessionRepository using SQLite.
type SQLiteSessionRepository struct {
	dbConn *sql.DB
}

// NewSQLiteSessionRepository creates a new SQLite session repository.
func NewSQLiteSessionRepository(dbConn *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{dbConn: dbConn}
}

func (r *SQLiteSessionRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// ExistingSessions returns every session already placed for courseID.
func (r *SQLiteSessionRepository) ExistingSessions(ctx context.Context, courseID uuid.UUID) ([]*domain.Session, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, course_id, class_group_id, subgroup_label, kind, teacher_id, secondary_teacher_id,
		       room_id, start_at, end_at, created_at, updated_at
		FROM sessions WHERE course_id = ? ORDER BY start_at
	`, courseID.String())
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
func (r *SQLiteSessionRepository) PersistSession(ctx context.Context, session *domain.Session) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO sessions (id, course_id, class_group_id, subgroup_label, kind, teacher_id,
		                       secondary_teacher_id, room_id, start_at, end_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			teacher_id = excluded.teacher_id,
			secondary_teacher_id = excluded.secondary_teacher_id,
			room_id = excluded.room_id,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			updated_at = excluded.updated_at
	`,
		session.ID().String(),
		session.CourseID().String(),
		session.ClassGroupID().String(),
		nullString(string(session.SubgroupLabel())),
		string(session.Kind()),
		session.TeacherID().String(),
		secondaryTeacherParam(session.SecondaryTeacherID()),
		session.RoomID().String(),
		formatTime(session.StartAt()),
		formatTime(session.EndAt()),
		formatTime(session.CreatedAt()),
		formatTime(session.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM attendance_links WHERE session_id = ?`, session.ID().String()); err != nil {
		return err
	}
	for _, classGroupID := range session.AttendingClassGroups() {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO attendance_links (session_id, class_group_id) VALUES (?, ?)
		`, session.ID().String(), classGroupID.String()); err != nil {
			return err
		}
	}
	return nil
}

// AllowedWeeks returns the weeks a course is restricted to, if any.
func (r *SQLiteSessionRepository) AllowedWeeks(ctx context.Context, courseID uuid.UUID) ([]domain.AllowedWeek, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT week_start, quota FROM allowed_weeks WHERE course_id = ? ORDER BY week_start
	`, courseID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []domain.AllowedWeek
	for rows.Next() {
		var weekStart string
		var quota sql.NullInt64
		if err := rows.Scan(&weekStart, &quota); err != nil {
			return nil, err
		}
		weeks = append(weeks, domain.AllowedWeek{
			WeekStart: parseDate(weekStart),
			Quota:     intPtrFromSQL(quota),
		})
	}
	return weeks, rows.Err()
}

func (r *SQLiteSessionRepository) loadAttendance(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT class_group_id FROM attendance_links WHERE session_id = ?
	`, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteSessionRepository) scanSession(rows *sql.Rows) (*domain.Session, error) {
	var (
		idStr, courseIDStr, classGroupIDStr, kindStr, teacherIDStr, roomIDStr string
		subgroupLabel, secondaryTeacherID                                    sql.NullString
		startAt, endAt, createdAt, updatedAt                                 string
	)
	if err := rows.Scan(&idStr, &courseIDStr, &classGroupIDStr, &subgroupLabel, &kindStr, &teacherIDStr,
		&secondaryTeacherID, &roomIDStr, &startAt, &endAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	id, _ := uuid.Parse(idStr)
	courseID, _ := uuid.Parse(courseIDStr)
	classGroupID, _ := uuid.Parse(classGroupIDStr)
	teacherID, _ := uuid.Parse(teacherIDStr)
	roomID, _ := uuid.Parse(roomIDStr)
	return domain.RehydrateSession(
		id, courseID, classGroupID,
		domain.SubgroupLabel(nullStringFromSQL(subgroupLabel)),
		domain.SessionType(kindStr),
		teacherID, parseUUID(secondaryTeacherID), roomID,
		parseTime(startAt), parseTime(endAt),
		nil,
		parseTime(createdAt), parseTime(updatedAt),
	), nil
}

func secondaryTeacherParam(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}

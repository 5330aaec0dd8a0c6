package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExec(t *testing.T, ctx context.Context, db *sql.DB, query string, args ...interface{}) {
	t.Helper()
	_, err := db.ExecContext(ctx, query, args...)
	require.NoError(t, err)
}

// seedSessionFKs inserts the teacher, room, class group, and course rows a
// session row's foreign keys require.
func seedSessionFKs(t *testing.T, ctx context.Context, db *sql.DB, teacherID, secondTeacherID, roomID, groupID, courseID uuid.UUID, now time.Time) {
	t.Helper()
	mustExec(t, ctx, db, `INSERT INTO teachers (id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		teacherID.String(), "M. Dupont", "08:00", "18:00", nil, formatTime(now), formatTime(now))
	mustExec(t, ctx, db, `INSERT INTO teachers (id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		secondTeacherID.String(), "Mme Leroy", "08:00", "18:00", nil, formatTime(now), formatTime(now))
	mustExec(t, ctx, db, `INSERT INTO rooms (id, name, seat_capacity, computer_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		roomID.String(), "B204", 30, 0, formatTime(now), formatTime(now))
	mustExec(t, ctx, db, `INSERT INTO class_groups (id, name, size, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		groupID.String(), "TS1", 24, formatTime(now), formatTime(now))
	mustExec(t, ctx, db, `
		INSERT INTO courses (id, name, session_type, session_length_hours, sessions_required,
		       window_start, window_end, priority, computers_required, data_scope, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, courseID.String(), "Algebre", "CM", 1.0, 1, "2026-09-01", "2026-12-19", 0, 0, "lycee-a", formatTime(now), formatTime(now))
}

func TestSQLiteSessionRepository_PersistSessionThenExistingSessionsRoundTrips(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	teacherID, secondTeacherID, roomID, groupA, groupB, courseID := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	seedSessionFKs(t, ctx, db, teacherID, secondTeacherID, roomID, groupA, courseID, now)
	mustExec(t, ctx, db, `INSERT INTO class_groups (id, name, size, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		groupB.String(), "TS2", 20, formatTime(now), formatTime(now))

	session := domain.NewSession(courseID, groupA, domain.SubgroupLabel(""), domain.SessionTypeCM, teacherID, roomID,
		time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC), time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC))
	session.AddAttendingClassGroup(groupA)
	session.AddAttendingClassGroup(groupB)
	session.SetSecondaryTeacher(secondTeacherID)

	repo := NewSQLiteSessionRepository(db)
	require.NoError(t, repo.PersistSession(ctx, session))

	existing, err := repo.ExistingSessions(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, existing, 1)

	got := existing[0]
	assert.Equal(t, session.ID(), got.ID())
	assert.Equal(t, teacherID, got.TeacherID())
	assert.Equal(t, secondTeacherID, got.SecondaryTeacherID())
	assert.Equal(t, roomID, got.RoomID())
	assert.ElementsMatch(t, []uuid.UUID{groupA, groupB}, got.AttendingClassGroups())
}

func TestSQLiteSessionRepository_PersistSessionUpsertsOnConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	teacherID, secondTeacherID, roomID, groupA, courseID := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	seedSessionFKs(t, ctx, db, teacherID, secondTeacherID, roomID, groupA, courseID, now)

	otherRoomID := uuid.New()
	mustExec(t, ctx, db, `INSERT INTO rooms (id, name, seat_capacity, computer_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		otherRoomID.String(), "C301", 20, 0, formatTime(now), formatTime(now))

	session := domain.NewSession(courseID, groupA, domain.SubgroupLabel(""), domain.SessionTypeCM, teacherID, roomID,
		time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC), time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC))

	repo := NewSQLiteSessionRepository(db)
	require.NoError(t, repo.PersistSession(ctx, session))

	session.SetRoom(otherRoomID)
	session.Reschedule(time.Date(2026, 9, 7, 10, 15, 0, 0, time.UTC), time.Date(2026, 9, 7, 11, 15, 0, 0, time.UTC))
	require.NoError(t, repo.PersistSession(ctx, session))

	existing, err := repo.ExistingSessions(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, existing, 1, "the second PersistSession call must update the existing row, not insert a second one")
	assert.Equal(t, otherRoomID, existing[0].RoomID())
	assert.True(t, existing[0].StartAt().Equal(time.Date(2026, 9, 7, 10, 15, 0, 0, time.UTC)))
}

func TestSQLiteSessionRepository_AllowedWeeksIncludesUnlimitedQuota(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	courseID := uuid.New()
	mustExec(t, ctx, db, `
		INSERT INTO courses (id, name, session_type, session_length_hours, sessions_required,
		       window_start, window_end, priority, computers_required, data_scope, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, courseID.String(), "Algebre", "TD", 1.0, 4, "2026-09-01", "2026-12-19", 0, 0, "lycee-a", formatTime(now), formatTime(now))

	mustExec(t, ctx, db, `INSERT INTO allowed_weeks (course_id, week_start, quota) VALUES (?, ?, ?)`,
		courseID.String(), "2026-09-07", 2)
	mustExec(t, ctx, db, `INSERT INTO allowed_weeks (course_id, week_start, quota) VALUES (?, ?, ?)`,
		courseID.String(), "2026-09-14", nil)

	repo := NewSQLiteSessionRepository(db)
	weeks, err := repo.AllowedWeeks(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	require.NotNil(t, weeks[0].Quota)
	assert.Equal(t, 2, *weeks[0].Quota)
	assert.True(t, weeks[1].AllowsUnlimited())
}

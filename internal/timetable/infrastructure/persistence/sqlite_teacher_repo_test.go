package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTeacherRepository_ListTeachersReconstructsAvailabilityAndUnavailability(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	teacherID := uuid.New()
	_, err := db.ExecContext(ctx, `
		INSERT INTO teachers (id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, teacherID.String(), "M. Dupont", "08:00", "18:00", 20, formatTime(now), formatTime(now))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO teacher_weekly_availability (teacher_id, weekday, start_time, end_time) VALUES (?, ?, ?, ?)
	`, teacherID.String(), 1, "08:00", "12:00")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO teacher_unavailabilities (teacher_id, start_date, end_date) VALUES (?, ?, ?)
	`, teacherID.String(), "2026-09-01", "2026-09-05")
	require.NoError(t, err)

	repo := NewSQLiteTeacherRepository(db)
	teachers, err := repo.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)

	got := teachers[0]
	assert.Equal(t, teacherID, got.ID())
	assert.Equal(t, "M. Dupont", got.Name())
	assert.Equal(t, "08:00", got.DailyWindowStart())
	assert.Equal(t, "18:00", got.DailyWindowEnd())
	require.NotNil(t, got.MaxWeeklyLoadHours())
	assert.Equal(t, 20, *got.MaxWeeklyLoadHours())

	require.Len(t, got.WeeklyAvailability(), 1)
	assert.Equal(t, time.Monday, got.WeeklyAvailability()[0].Weekday)
	assert.Equal(t, "08:00", got.WeeklyAvailability()[0].StartTime)
	assert.Equal(t, "12:00", got.WeeklyAvailability()[0].EndTime)

	require.Len(t, got.UnavailableRanges(), 1)
	assert.True(t, got.UnavailableRanges()[0].Start.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, got.UnavailableRanges()[0].End.Equal(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)))
}

func TestSQLiteTeacherRepository_GetTeacherByID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	teacherID := uuid.New()
	_, err := db.ExecContext(ctx, `
		INSERT INTO teachers (id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, teacherID.String(), "Mme Leroy", "09:00", "17:00", nil, formatTime(now), formatTime(now))
	require.NoError(t, err)

	repo := NewSQLiteTeacherRepository(db)
	got, err := repo.GetTeacher(ctx, teacherID)
	require.NoError(t, err)
	assert.Equal(t, "Mme Leroy", got.Name())
	assert.Nil(t, got.MaxWeeklyLoadHours())
	assert.Empty(t, got.WeeklyAvailability())
	assert.Empty(t, got.UnavailableRanges())
}

func TestSQLiteTeacherRepository_ListTeachersOrdersByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for _, name := range []string{"Zidane", "Abdou"} {
		_, err := db.ExecContext(ctx, `
			INSERT INTO teachers (id, name, daily_window_start, daily_window_end, max_weekly_load_hours, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), name, "08:00", "18:00", nil, formatTime(now), formatTime(now))
		require.NoError(t, err)
	}

	repo := NewSQLiteTeacherRepository(db)
	teachers, err := repo.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "Abdou", teachers[0].Name())
	assert.Equal(t, "Zidane", teachers[1].Name())
}

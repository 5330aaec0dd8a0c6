package app

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// mockSQLiteConnection implements database.Connection for testing.
type mockSQLiteConnection struct {
	db *sql.DB
}

func (m *mockSQLiteConnection) Driver() database.Driver {
	return database.DriverSQLite
}

func (m *mockSQLiteConnection) DB() *sql.DB {
	return m.db
}

func (m *mockSQLiteConnection) Close() error {
	return m.db.Close()
}

func (m *mockSQLiteConnection) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *mockSQLiteConnection) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil // Not needed for this test
}

func (m *mockSQLiteConnection) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return nil, nil
}

func (m *mockSQLiteConnection) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return nil
}

func (m *mockSQLiteConnection) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return nil, nil
}

// setupTestDB creates an in-memory SQLite database with schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	schemaPath := filepath.Join("..", "shared", "infrastructure", "migrations", "sqlite", "0001_init.up.sql")
	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err)

	_, err = sqlDB.Exec(string(schema))
	require.NoError(t, err)

	return sqlDB
}

func insertTeacher(t *testing.T, sqlDB *sql.DB, id uuid.UUID) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := sqlDB.Exec(
		`INSERT INTO teachers (id, name, daily_window_start, daily_window_end, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), "Factory Test Teacher", "08:00", "18:00", now, now,
	)
	require.NoError(t, err)
}

func insertCourse(t *testing.T, sqlDB *sql.DB, id uuid.UUID, scope string) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := sqlDB.Exec(
		`INSERT INTO courses (id, name, session_type, session_length_hours, sessions_required,
		                       window_start, window_end, priority, computers_required, data_scope,
		                       created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), "Factory Test Course", "TD", 1.5, 6,
		"2026-09-01", "2027-06-30", 0, 0, scope,
		now, now,
	)
	require.NoError(t, err)
}

func TestRepositoryFactory_TeacherRepository_SQLite(t *testing.T) {
	sqlDB := setupTestDB(t)
	defer sqlDB.Close()

	conn := &mockSQLiteConnection{db: sqlDB}
	factory := NewRepositoryFactory(conn)

	teacherRepo, err := factory.TeacherRepository()
	require.NoError(t, err)
	require.NotNil(t, teacherRepo)

	teacherID := uuid.New()
	insertTeacher(t, sqlDB, teacherID)

	ctx := context.Background()
	found, err := teacherRepo.GetTeacher(ctx, teacherID)
	require.NoError(t, err)
	assert.Equal(t, "Factory Test Teacher", found.Name())

	all, err := teacherRepo.ListTeachers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepositoryFactory_CourseRepository_SQLite(t *testing.T) {
	sqlDB := setupTestDB(t)
	defer sqlDB.Close()

	conn := &mockSQLiteConnection{db: sqlDB}
	factory := NewRepositoryFactory(conn)

	courseRepo, err := factory.CourseRepository()
	require.NoError(t, err)
	require.NotNil(t, courseRepo)

	courseID := uuid.New()
	insertCourse(t, sqlDB, courseID, "default")
	insertCourse(t, sqlDB, uuid.New(), "other-school")

	ctx := context.Background()
	courses, err := courseRepo.ListCourses(ctx, "default")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, courseID, courses[0].ID())
	assert.Equal(t, "Factory Test Course", courses[0].Name())
}

func TestRepositoryFactory_Driver(t *testing.T) {
	sqlDB := setupTestDB(t)
	defer sqlDB.Close()

	conn := &mockSQLiteConnection{db: sqlDB}
	factory := NewRepositoryFactory(conn)

	assert.Equal(t, database.DriverSQLite, factory.Driver())
}

func TestRepositoryFactory_Connection(t *testing.T) {
	sqlDB := setupTestDB(t)
	defer sqlDB.Close()

	conn := &mockSQLiteConnection{db: sqlDB}
	factory := NewRepositoryFactory(conn)

	assert.Equal(t, conn, factory.Connection())
}

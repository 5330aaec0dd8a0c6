package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
)

// SQLiteScheduleLogRepository implements domain.ScheduleLogRepository using SQLite.
type SQLiteScheduleLogRepository struct {
	dbConn *sql.DB
}

// NewSQLiteScheduleLogRepository creates a new SQLite schedule log repository.
func NewSQLiteScheduleLogRepository(dbConn *sql.DB) *SQLiteScheduleLogRepository {
	return &SQLiteScheduleLogRepository{dbConn: dbConn}
}

func (r *SQLiteScheduleLogRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// PersistScheduleLog writes one generation-run audit record.
func (r *SQLiteScheduleLogRepository) PersistScheduleLog(ctx context.Context, log domain.ScheduleLog) error {
	messages, err := json.Marshal(log.Messages)
	if err != nil {
		return err
	}
	createdAt := log.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = r.querier(ctx).ExecContext(ctx, `
		INSERT INTO schedule_logs (course_id, status, summary, messages, window_start, window_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		log.CourseID.String(),
		log.Status,
		log.Summary,
		string(messages),
		formatDate(log.WindowStart),
		formatDate(log.WindowEnd),
		formatTime(createdAt),
	)
	return err
}

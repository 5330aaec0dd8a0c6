package persistence

import (
	"context"
	"encoding/json"
	"time"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScheduleLogRepository implements domain.ScheduleLogRepository using PostgreSQL.
type PostgresScheduleLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleLogRepository creates a new PostgreSQL schedule log repository.
func NewPostgresScheduleLogRepository(pool *pgxpool.Pool) *PostgresScheduleLogRepository {
	return &PostgresScheduleLogRepository{pool: pool}
}

// PersistScheduleLog writes one generation-run audit record.
func (r *PostgresScheduleLogRepository) PersistScheduleLog(ctx context.Context, log domain.ScheduleLog) error {
	messages, err := json.Marshal(log.Messages)
	if err != nil {
		return err
	}
	createdAt := log.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err = execer.Exec(ctx, `
		INSERT INTO schedule_logs (course_id, status, summary, messages, window_start, window_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		log.CourseID,
		log.Status,
		log.Summary,
		messages,
		log.WindowStart,
		log.WindowEnd,
		createdAt,
	)
	return err
}

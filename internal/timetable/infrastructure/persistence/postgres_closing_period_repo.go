package persistence

import (
	"context"
	"time"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClosingPeriodRepository implements domain.ClosingPeriodRepository using PostgreSQL.
type PostgresClosingPeriodRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresClosingPeriodRepository creates a new PostgreSQL closing period repository.
func NewPostgresClosingPeriodRepository(pool *pgxpool.Pool) *PostgresClosingPeriodRepository {
	return &PostgresClosingPeriodRepository{pool: pool}
}

// ListClosingPeriods returns every closing period scoped to scope.
func (r *PostgresClosingPeriodRepository) ListClosingPeriods(ctx context.Context, scope string) ([]domain.ClosingPeriod, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT start_date, end_date, label FROM closing_periods WHERE data_scope = $1 ORDER BY start_date
	`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []domain.ClosingPeriod
	for rows.Next() {
		var start, end time.Time
		var label *string
		if err := rows.Scan(&start, &end, &label); err != nil {
			return nil, err
		}
		l := ""
		if label != nil {
			l = *label
		}
		periods = append(periods, domain.NewClosingPeriod(domain.DateRange{Start: start, End: end}, l))
	}
	return periods, rows.Err()
}

package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
)

// SQLiteClosingPeriodRepository implements domain.ClosingPeriodRepository using SQLite.
type SQLiteClosingPeriodRepository struct {
	dbConn *sql.DB
}

// NewSQLiteClosingPeriodRepository creates a new SQLite closing period repository.
func NewSQLiteClosingPeriodRepository(dbConn *sql.DB) *SQLiteClosingPeriodRepository {
	return &SQLiteClosingPeriodRepository{dbConn: dbConn}
}

func (r *SQLiteClosingPeriodRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// ListClosingPeriods returns every closing period scoped to scope.
func (r *SQLiteClosingPeriodRepository) ListClosingPeriods(ctx context.Context, scope string) ([]domain.ClosingPeriod, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT start_date, end_date, label FROM closing_periods WHERE data_scope = ? ORDER BY start_date
	`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []domain.ClosingPeriod
	for rows.Next() {
		var start, end string
		var label sql.NullString
		if err := rows.Scan(&start, &end, &label); err != nil {
			return nil, err
		}
		periods = append(periods, domain.NewClosingPeriod(
			domain.DateRange{Start: parseDate(start), End: parseDate(end)},
			nullStringFromSQL(label),
		))
	}
	return periods, rows.Err()
}

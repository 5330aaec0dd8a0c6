package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// SQLiteClassGroupRepository implements domain.ClassGroupRepository using SQLite.
type SQLiteClassGroupRepository struct {
	dbConn *sql.DB
}

// NewSQLiteClassGroupRepository creates a new SQLite class group repository.
func NewSQLiteClassGroupRepository(dbConn *sql.DB) *SQLiteClassGroupRepository {
	return &SQLiteClassGroupRepository{dbConn: dbConn}
}

func (r *SQLiteClassGroupRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// ListClassGroups returns every class group with its unavailable ranges.
func (r *SQLiteClassGroupRepository) ListClassGroups(ctx context.Context) ([]*domain.ClassGroup, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, name, size, created_at, updated_at FROM class_groups ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.ClassGroup
	for rows.Next() {
		g, err := r.scanClassGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, g := range groups {
		if err := r.loadUnavailabilities(ctx, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// GetClassGroup returns one class group by id.
func (r *SQLiteClassGroupRepository) GetClassGroup(ctx context.Context, id uuid.UUID) (*domain.ClassGroup, error) {
	row := r.querier(ctx).QueryRowContext(ctx, `
		SELECT id, name, size, created_at, updated_at FROM class_groups WHERE id = ?
	`, id.String())
	var (
		idStr, name, createdAt, updatedAt string
		size                              int
	)
	if err := row.Scan(&idStr, &name, &size, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	groupID, _ := uuid.Parse(idStr)
	g := domain.RehydrateClassGroup(groupID, name, size, nil, parseTime(createdAt), parseTime(updatedAt))
	if err := r.loadUnavailabilities(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLiteClassGroupRepository) loadUnavailabilities(ctx context.Context, g *domain.ClassGroup) error {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT start_date, end_date FROM class_group_unavailabilities WHERE class_group_id = ?
	`, g.ID().String())
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var start, end string
		if err := rows.Scan(&start, &end); err != nil {
			return err
		}
		g.AddUnavailableRange(domain.DateRange{Start: parseDate(start), End: parseDate(end)})
	}
	return rows.Err()
}

func (r *SQLiteClassGroupRepository) scanClassGroup(rows *sql.Rows) (*domain.ClassGroup, error) {
	var (
		idStr, name, createdAt, updatedAt string
		size                              int
	)
	if err := rows.Scan(&idStr, &name, &size, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	groupID, _ := uuid.Parse(idStr)
	return domain.RehydrateClassGroup(groupID, name, size, nil, parseTime(createdAt), parseTime(updatedAt)), nil
}

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

// PostgresClassGroupRepository implements domain.ClassGroupRepository using PostgreSQL.
type PostgresClassGroupRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresClassGroupRepository creates a new PostgreSQL class group repository.
func NewPostgresClassGroupRepository(pool *pgxpool.Pool) *PostgresClassGroupRepository {
	return &PostgresClassGroupRepository{pool: pool}
}

// ListClassGroups returns every class group with its unavailable ranges.
func (r *PostgresClassGroupRepository) ListClassGroups(ctx context.Context) ([]*domain.ClassGroup, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
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
func (r *PostgresClassGroupRepository) GetClassGroup(ctx context.Context, id uuid.UUID) (*domain.ClassGroup, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	row := execer.QueryRow(ctx, `
		SELECT id, name, size, created_at, updated_at FROM class_groups WHERE id = $1
	`, id)
	var (
		groupID              uuid.UUID
		name                 string
		size                 int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&groupID, &name, &size, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	g := domain.RehydrateClassGroup(groupID, name, size, nil, createdAt, updatedAt)
	if err := r.loadUnavailabilities(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *PostgresClassGroupRepository) loadUnavailabilities(ctx context.Context, g *domain.ClassGroup) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT start_date, end_date FROM class_group_unavailabilities WHERE class_group_id = $1
	`, g.ID())
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return err
		}
		g.AddUnavailableRange(domain.DateRange{Start: start, End: end})
	}
	return rows.Err()
}

func (r *PostgresClassGroupRepository) scanClassGroup(rows pgx.Rows) (*domain.ClassGroup, error) {
	var (
		id                   uuid.UUID
		name                 string
		size                 int
		createdAt, updatedAt time.Time
	)
	if err := rows.Scan(&id, &name, &size, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateClassGroup(id, name, size, nil, createdAt, updatedAt), nil
}

package persistence

import (
	"context"
	"time"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRoomRepository implements domain.RoomRepository using PostgreSQL.
type PostgresRoomRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomRepository creates a new PostgreSQL room repository.
func NewPostgresRoomRepository(pool *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{pool: pool}
}

// ListRooms returns every room with its equipment and software.
func (r *PostgresRoomRepository) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT id, name, seat_capacity, computer_count, created_at, updated_at FROM rooms ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		var (
			id                          uuid.UUID
			name                        string
			seatCapacity, computerCount int
			createdAt, updatedAt        time.Time
		)
		if err := rows.Scan(&id, &name, &seatCapacity, &computerCount, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		equipment, err := r.loadLabels(ctx, "room_equipment", "equipment", id)
		if err != nil {
			return nil, err
		}
		software, err := r.loadLabels(ctx, "room_software", "software", id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, domain.RehydrateRoom(id, name, seatCapacity, computerCount, equipment, software, createdAt, updatedAt))
	}
	return rooms, rows.Err()
}

func (r *PostgresRoomRepository) loadLabels(ctx context.Context, table, column string, roomID uuid.UUID) ([]string, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, "SELECT "+column+" FROM "+table+" WHERE room_id = $1", roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

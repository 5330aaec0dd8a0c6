package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// SQLiteRoomRepository implements domain.RoomRepository using SQLite.
type SQLiteRoomRepository struct {
	dbConn *sql.DB
}

// NewSQLiteRoomRepository creates a new SQLite room repository.
func NewSQLiteRoomRepository(dbConn *sql.DB) *SQLiteRoomRepository {
	return &SQLiteRoomRepository{dbConn: dbConn}
}

func (r *SQLiteRoomRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// ListRooms returns every room with its equipment and software.
func (r *SQLiteRoomRepository) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, name, seat_capacity, computer_count, created_at, updated_at FROM rooms ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		var (
			idStr, name, createdAt, updatedAt string
			seatCapacity, computerCount       int
		)
		if err := rows.Scan(&idStr, &name, &seatCapacity, &computerCount, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		id, _ := uuid.Parse(idStr)
		equipment, err := r.loadLabels(ctx, "room_equipment", "equipment", id)
		if err != nil {
			return nil, err
		}
		software, err := r.loadLabels(ctx, "room_software", "software", id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, domain.RehydrateRoom(id, name, seatCapacity, computerCount, equipment, software, parseTime(createdAt), parseTime(updatedAt)))
	}
	return rooms, rows.Err()
}

func (r *SQLiteRoomRepository) loadLabels(ctx context.Context, table, column string, roomID uuid.UUID) ([]string, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, "SELECT "+column+" FROM "+table+" WHERE room_id = ?", roomID.String())
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

package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// Room is a physical space with seating, compute, and software resources.
type Room struct {
	sharedDomain.BaseEntity
	name          string
	seatCapacity  int
	computerCount int
	equipment     map[string]struct{}
	software      map[string]struct{}
}

// NewRoom creates a new room.
func NewRoom(name string, seatCapacity, computerCount int) *Room {
	return &Room{
		BaseEntity:    sharedDomain.NewBaseEntity(),
		name:          name,
		seatCapacity:  seatCapacity,
		computerCount: computerCount,
		equipment:     make(map[string]struct{}),
		software:      make(map[string]struct{}),
	}
}

// RehydrateRoom reconstructs a room from persisted state.
func RehydrateRoom(
	id uuid.UUID,
	name string,
	seatCapacity, computerCount int,
	equipment, software []string,
	createdAt, updatedAt time.Time,
) *Room {
	r := &Room{
		BaseEntity:    sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:          name,
		seatCapacity:  seatCapacity,
		computerCount: computerCount,
		equipment:     make(map[string]struct{}, len(equipment)),
		software:      make(map[string]struct{}, len(software)),
	}
	for _, e := range equipment {
		r.equipment[e] = struct{}{}
	}
	for _, s := range software {
		r.software[s] = struct{}{}
	}
	return r
}

func (r *Room) Name() string          { return r.name }
func (r *Room) SeatCapacity() int     { return r.seatCapacity }
func (r *Room) ComputerCount() int    { return r.computerCount }

// Equipment returns the set of installed equipment labels.
func (r *Room) Equipment() []string {
	out := make([]string, 0, len(r.equipment))
	for e := range r.equipment {
		out = append(out, e)
	}
	return out
}

// Software returns the set of installed software labels.
func (r *Room) Software() []string {
	out := make([]string, 0, len(r.software))
	for s := range r.software {
		out = append(out, s)
	}
	return out
}

// AddEquipment registers an installed equipment label.
func (r *Room) AddEquipment(label string) {
	r.equipment[label] = struct{}{}
	r.Touch()
}

// AddSoftware registers an installed software label.
func (r *Room) AddSoftware(label string) {
	r.software[label] = struct{}{}
	r.Touch()
}

// Satisfies reports whether the room meets the given resource requirements
// (invariants 2 and 3 of the data model).
func (r *Room) Satisfies(requiredSeats, requiredComputers int, requiredEquipment, requiredSoftware []string) bool {
	if r.seatCapacity < requiredSeats {
		return false
	}
	if r.computerCount < requiredComputers {
		return false
	}
	for _, e := range requiredEquipment {
		if _, ok := r.equipment[e]; !ok {
			return false
		}
	}
	for _, s := range requiredSoftware {
		if _, ok := r.software[s]; !ok {
			return false
		}
	}
	return true
}

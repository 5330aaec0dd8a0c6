package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// ClassGroup is a cohort of students treated as a scheduling unit.
type ClassGroup struct {
	sharedDomain.BaseEntity
	name              string
	size              int
	unavailableRanges []DateRange
}

// NewClassGroup creates a new class group.
func NewClassGroup(name string, size int) *ClassGroup {
	return &ClassGroup{
		BaseEntity: sharedDomain.NewBaseEntity(),
		name:       name,
		size:       size,
	}
}

// RehydrateClassGroup reconstructs a class group from persisted state.
func RehydrateClassGroup(
	id uuid.UUID,
	name string,
	size int,
	unavailableRanges []DateRange,
	createdAt, updatedAt time.Time,
) *ClassGroup {
	return &ClassGroup{
		BaseEntity:        sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:              name,
		size:              size,
		unavailableRanges: unavailableRanges,
	}
}

func (c *ClassGroup) Name() string                { return c.name }
func (c *ClassGroup) Size() int                   { return c.size }
func (c *ClassGroup) UnavailableRanges() []DateRange { return c.unavailableRanges }

// SubgroupSize returns the attendance size for one half of a split class group,
// rounded up per invariant 2 of the data model.
func (c *ClassGroup) SubgroupSize() int {
	return (c.size + 1) / 2
}

// AddUnavailableRange registers a date range during which the whole group cannot attend.
func (c *ClassGroup) AddUnavailableRange(r DateRange) {
	c.unavailableRanges = append(c.unavailableRanges, r)
	c.Touch()
}

// IsUnavailableOn reports whether the class group cannot attend on date.
func (c *ClassGroup) IsUnavailableOn(date time.Time) bool {
	for _, r := range c.unavailableRanges {
		if r.Contains(date) {
			return true
		}
	}
	return false
}

package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// DateRange is an inclusive [Start, End] calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the range, inclusive.
func (r DateRange) Contains(d time.Time) bool {
	day := truncateToDate(d)
	return !day.Before(truncateToDate(r.Start)) && !day.After(truncateToDate(r.End))
}

// Overlaps reports whether two date ranges share any day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !truncateToDate(r.Start).After(truncateToDate(other.End)) &&
		!truncateToDate(other.Start).After(truncateToDate(r.End))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeeklyInterval is a recurring available interval on a given weekday.
type WeeklyInterval struct {
	Weekday   time.Weekday
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// Teacher is a scheduling participant with recurring and one-off availability.
type Teacher struct {
	sharedDomain.BaseEntity
	name                string
	dailyWindowStart    string // HH:MM, global earliest start across all days
	dailyWindowEnd      string // HH:MM, global latest end across all days
	weeklyAvailability  []WeeklyInterval
	unavailableRanges   []DateRange
	maxWeeklyLoadHours  *int
}

// NewTeacher creates a new teacher.
func NewTeacher(name, dailyWindowStart, dailyWindowEnd string) *Teacher {
	return &Teacher{
		BaseEntity:       sharedDomain.NewBaseEntity(),
		name:             name,
		dailyWindowStart: dailyWindowStart,
		dailyWindowEnd:   dailyWindowEnd,
	}
}

// RehydrateTeacher reconstructs a teacher from persisted state.
func RehydrateTeacher(
	id uuid.UUID,
	name, dailyWindowStart, dailyWindowEnd string,
	weeklyAvailability []WeeklyInterval,
	unavailableRanges []DateRange,
	maxWeeklyLoadHours *int,
	createdAt, updatedAt time.Time,
) *Teacher {
	return &Teacher{
		BaseEntity:         sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:               name,
		dailyWindowStart:   dailyWindowStart,
		dailyWindowEnd:     dailyWindowEnd,
		weeklyAvailability: weeklyAvailability,
		unavailableRanges:  unavailableRanges,
		maxWeeklyLoadHours: maxWeeklyLoadHours,
	}
}

func (t *Teacher) Name() string                          { return t.name }
func (t *Teacher) DailyWindowStart() string               { return t.dailyWindowStart }
func (t *Teacher) DailyWindowEnd() string                 { return t.dailyWindowEnd }
func (t *Teacher) WeeklyAvailability() []WeeklyInterval    { return t.weeklyAvailability }
func (t *Teacher) UnavailableRanges() []DateRange          { return t.unavailableRanges }
func (t *Teacher) MaxWeeklyLoadHours() *int                { return t.maxWeeklyLoadHours }

// AddWeeklyAvailability registers a recurring available interval.
func (t *Teacher) AddWeeklyAvailability(interval WeeklyInterval) {
	t.weeklyAvailability = append(t.weeklyAvailability, interval)
	t.Touch()
}

// AddUnavailableRange registers a one-off unavailability (e.g. leave, illness).
func (t *Teacher) AddUnavailableRange(r DateRange) {
	t.unavailableRanges = append(t.unavailableRanges, r)
	t.Touch()
}

// IsUnavailableOn reports whether the teacher has a recorded unavailability covering date.
func (t *Teacher) IsUnavailableOn(date time.Time) bool {
	for _, r := range t.unavailableRanges {
		if r.Contains(date) {
			return true
		}
	}
	return false
}

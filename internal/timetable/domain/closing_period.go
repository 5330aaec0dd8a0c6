package domain

import "time"

// ClosingPeriod is a calendar range globally forbidden to all placements,
// e.g. school holidays.
type ClosingPeriod struct {
	Range DateRange
	Label string
}

// NewClosingPeriod creates a new closing period.
func NewClosingPeriod(r DateRange, label string) ClosingPeriod {
	return ClosingPeriod{Range: r, Label: label}
}

// AllowedWeek restricts a course to a specific ISO week, optionally capping
// the sessions placeable in that week.
type AllowedWeek struct {
	WeekStart time.Time // Monday the week begins on
	Quota     *int      // nil means allowed, no numeric cap
}

// AllowsUnlimited reports whether the week carries no quota cap.
func (w AllowedWeek) AllowsUnlimited() bool {
	return w.Quota == nil
}

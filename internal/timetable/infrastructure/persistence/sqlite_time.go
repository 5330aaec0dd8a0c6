package persistence

import (
	"database/sql"
	"time"
)

// timeWeekday converts the schema's 1=Mon..5=Fri encoding to time.Weekday,
// which already assigns Monday=1..Friday=5.
func timeWeekday(weekday int) time.Weekday {
	return time.Weekday(weekday)
}

func weekdayInt(w time.Weekday) int {
	return int(w)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullStringFromSQL(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func nullIntPtr(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

func intPtrFromSQL(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowedWeek_AllowsUnlimited(t *testing.T) {
	unlimited := AllowedWeek{WeekStart: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)}
	assert.True(t, unlimited.AllowsUnlimited())

	quota := 2
	limited := AllowedWeek{WeekStart: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), Quota: &quota}
	assert.False(t, limited.AllowsUnlimited())
}

func TestNewClosingPeriod(t *testing.T) {
	r := DateRange{
		Start: time.Date(2026, 12, 19, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	period := NewClosingPeriod(r, "Christmas break")

	assert.Equal(t, "Christmas break", period.Label)
	assert.True(t, period.Range.Contains(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)))
}

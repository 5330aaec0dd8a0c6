package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkingWindows(t *testing.T) {
	windows := DefaultWorkingWindows()
	require.Len(t, windows, 4)
	assert.Equal(t, WorkingWindow{StartHour: 8, StartMinute: 0, EndHour: 10, EndMinute: 0}, windows[0])
	assert.Equal(t, WorkingWindow{StartHour: 15, StartMinute: 45, EndHour: 17, EndMinute: 45}, windows[3])
}

func TestWorkingWindow_Slots(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	window := WorkingWindow{StartHour: 8, StartMinute: 0, EndHour: 10, EndMinute: 0}

	slots := window.Slots(day, time.Hour)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), slots[0].End)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), slots[1].Start)
	assert.Equal(t, time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC), slots[1].End)
}

func TestWorkingWindow_SlotsExactFitNoOverflow(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	window := WorkingWindow{StartHour: 13, StartMinute: 30, EndHour: 15, EndMinute: 30}

	slots := window.Slots(day, 90*time.Minute)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 9, 7, 13, 30, 0, 0, time.UTC), slots[0].Start)
}

func TestWorkingWindow_SlotsDurationLongerThanWindow(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	window := WorkingWindow{StartHour: 8, StartMinute: 0, EndHour: 10, EndMinute: 0}

	slots := window.Slots(day, 3*time.Hour)
	assert.Empty(t, slots)
}

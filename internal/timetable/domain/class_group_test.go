package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassGroup_SubgroupSize(t *testing.T) {
	assert.Equal(t, 15, NewClassGroup("TS1", 30).SubgroupSize())
	assert.Equal(t, 15, NewClassGroup("TS2", 29).SubgroupSize(), "odd sizes round up")
	assert.Equal(t, 1, NewClassGroup("solo", 1).SubgroupSize())
}

func TestClassGroup_IsUnavailableOn(t *testing.T) {
	group := NewClassGroup("TS1", 30)
	trip := DateRange{
		Start: time.Date(2027, 3, 9, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2027, 3, 13, 0, 0, 0, 0, time.UTC),
	}
	group.AddUnavailableRange(trip)

	assert.True(t, group.IsUnavailableOn(time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, group.IsUnavailableOn(time.Date(2027, 3, 14, 0, 0, 0, 0, time.UTC)))
}

func TestRehydrateClassGroup(t *testing.T) {
	tmp := NewClassGroup("tmp", 1)
	now := tmp.CreatedAt()
	group := RehydrateClassGroup(tmp.ID(), "TS3", 28, nil, now, now)

	assert.Equal(t, "TS3", group.Name())
	assert.Equal(t, 28, group.Size())
}

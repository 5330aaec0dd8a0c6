package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteClassGroupRepository_ListClassGroupsReconstructsUnavailability(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	groupID := uuid.New()
	_, err := db.ExecContext(ctx, `
		INSERT INTO class_groups (id, name, size, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, groupID.String(), "TS1", 24, formatTime(now), formatTime(now))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO class_group_unavailabilities (class_group_id, start_date, end_date) VALUES (?, ?, ?)
	`, groupID.String(), "2026-12-20", "2027-01-04")
	require.NoError(t, err)

	repo := NewSQLiteClassGroupRepository(db)
	groups, err := repo.ListClassGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	got := groups[0]
	assert.Equal(t, "TS1", got.Name())
	assert.Equal(t, 24, got.Size())
	require.Len(t, got.UnavailableRanges(), 1)
	assert.True(t, got.UnavailableRanges()[0].Start.Equal(time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)))
	assert.True(t, got.UnavailableRanges()[0].End.Equal(time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC)))
}

func TestSQLiteClassGroupRepository_GetClassGroupByID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	groupID := uuid.New()
	_, err := db.ExecContext(ctx, `
		INSERT INTO class_groups (id, name, size, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, groupID.String(), "TS2", 18, formatTime(now), formatTime(now))
	require.NoError(t, err)

	repo := NewSQLiteClassGroupRepository(db)
	got, err := repo.GetClassGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, "TS2", got.Name())
	assert.Equal(t, 18, got.Size())
	assert.Empty(t, got.UnavailableRanges())
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/internal/db"
	"github.com/rewearhq/rewear/internal/model"
)

func TestTokenRevocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = IsTokenRevoked(ctx, database, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Revoking twice is fine.
	require.NoError(t, RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)))
}

func TestStats(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	requester := newTestUser(t, database, "requester@example.com", 100, false)

	newTestItem(t, database, owner.ID, "")
	active := newTestItem(t, database, owner.ID, "active")

	offered := 10
	_, err := CreateSwap(ctx, database, &model.Swap{
		RequesterUserID: requester.ID,
		OwnerUserID:     owner.ID,
		RequestedItemID: active.ID,
		PointsOffered:   &offered,
	})
	require.NoError(t, err)

	stats, err := GetStats(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalSwaps)
	assert.Equal(t, 1, stats.PendingReviews)
}

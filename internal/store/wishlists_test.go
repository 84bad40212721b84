package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/internal/db"
	"github.com/rewearhq/rewear/internal/model"
)

func TestWishlistAddIsIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	user := newTestUser(t, database, "user@example.com", 0, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	first, err := AddToWishlist(ctx, database, user.ID, item.ID)
	require.NoError(t, err)

	second, err := AddToWishlist(ctx, database, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	entries, err := ListWishlistByUser(ctx, database, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Item)
	assert.Equal(t, item.ID, entries[0].Item.ID)
	assert.Equal(t, "Wool Coat", entries[0].Item.Title)
}

func TestWishlistRemove(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	user := newTestUser(t, database, "user@example.com", 0, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	_, err := AddToWishlist(ctx, database, user.ID, item.ID)
	require.NoError(t, err)

	removed, err := RemoveFromWishlist(ctx, database, user.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = RemoveFromWishlist(ctx, database, user.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

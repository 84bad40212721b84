package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/internal/db"
	"github.com/rewearhq/rewear/internal/model"
)

func TestCreateItemForcesPending(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)

	item, err := CreateItem(ctx, database, &model.Item{
		Title:       "Denim Jacket",
		Description: "Lightly worn",
		Category:    "outerwear",
		Condition:   "good",
		Points:      180,
		OwnerID:     owner.ID,
		Status:      model.ItemStatusActive, // must be ignored
	})
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusPending, item.Status)
	assert.Equal(t, "Denim Jacket", item.Title)
	assert.Equal(t, []string{}, item.Tags)
	assert.Equal(t, []string{}, item.Images)
}

func TestGetItemRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	created := newTestItem(t, database, owner.ID, "")

	item, err := GetItem(ctx, database, created.ID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, []string{"winter", "wool"}, item.Tags)
	assert.Equal(t, []string{"/uploads/test.jpg"}, item.Images)
	assert.Equal(t, owner.ID, item.OwnerID)

	missing, err := GetItem(ctx, database, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListItemsFiltersByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)

	newTestItem(t, database, owner.ID, model.ItemStatusActive)
	newTestItem(t, database, owner.ID, model.ItemStatusPending)
	newTestItem(t, database, owner.ID, model.ItemStatusFlagged)
	newTestItem(t, database, owner.ID, model.ItemStatusSwapped)
	newTestItem(t, database, owner.ID, model.ItemStatusRemoved)

	active, err := ListItems(ctx, database, ItemFilter{Status: model.ItemStatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, model.ItemStatusActive, active[0].Status)
}

func TestListItemsSearchAndFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)

	coat, err := CreateItem(ctx, database, &model.Item{
		Title: "Red Raincoat", Description: "Waterproof shell",
		Category: "outerwear", Condition: "good", Points: 180, OwnerID: owner.ID,
	})
	require.NoError(t, err)
	_, err = CreateItem(ctx, database, &model.Item{
		Title: "Silk Dress", Description: "Evening wear",
		Category: "dresses", Condition: "excellent", Points: 234, OwnerID: owner.ID,
	})
	require.NoError(t, err)

	byCategory, err := ListItems(ctx, database, ItemFilter{Category: "outerwear"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, coat.ID, byCategory[0].ID)

	bySearch, err := ListItems(ctx, database, ItemFilter{Search: "rainco"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, coat.ID, bySearch[0].ID)

	byDescription, err := ListItems(ctx, database, ItemFilter{Search: "evening"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)

	limited, err := ListItems(ctx, database, ItemFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	offset, err := ListItems(ctx, database, ItemFilter{Limit: 10, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, offset, 1)
}

func TestTransitionItemCAS(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	item := newTestItem(t, database, owner.ID, "")

	require.NoError(t, TransitionItem(ctx, database, item.ID, model.ItemStatusPending, model.ItemStatusActive))

	// Second transition from pending must fail: the row moved on.
	err := TransitionItem(ctx, database, item.ID, model.ItemStatusPending, model.ItemStatusRejected)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusActive, got.Status)
}

func TestUpdateItemDetailsKeepsStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	item.Title = "Renamed Coat"
	item.Tags = []string{"updated"}
	require.NoError(t, UpdateItemDetails(ctx, database, item))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Coat", got.Title)
	assert.Equal(t, []string{"updated"}, got.Tags)
	assert.Equal(t, model.ItemStatusActive, got.Status)
}

func TestDeleteItemCleansUp(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	requester := newTestUser(t, database, "requester@example.com", 100, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	_, err := AddToWishlist(ctx, database, requester.ID, item.ID)
	require.NoError(t, err)

	offered := 50
	swap, err := CreateSwap(ctx, database, &model.Swap{
		RequesterUserID: requester.ID,
		OwnerUserID:     owner.ID,
		RequestedItemID: item.ID,
		PointsOffered:   &offered,
	})
	require.NoError(t, err)

	require.NoError(t, DeleteItem(ctx, database, item.ID))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusRemoved, got.Status)

	wishlist, err := ListWishlistByUser(ctx, database, requester.ID)
	require.NoError(t, err)
	assert.Empty(t, wishlist)

	gotSwap, err := GetSwap(ctx, database, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusRejected, gotSwap.Status)
}

func TestDeleteItemBlockedByAcceptedSwap(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	requester := newTestUser(t, database, "requester@example.com", 100, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	offered := 50
	swap, err := CreateSwap(ctx, database, &model.Swap{
		RequesterUserID: requester.ID,
		OwnerUserID:     owner.ID,
		RequestedItemID: item.ID,
		PointsOffered:   &offered,
	})
	require.NoError(t, err)
	require.NoError(t, TransitionSwap(ctx, database, swap.ID, model.SwapStatusPending, model.SwapStatusAccepted))

	// An accepted swap is a commitment to settle; the item cannot be
	// pulled out from under it.
	err = DeleteItem(ctx, database, item.ID)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusActive, got.Status)
}

func TestDeleteItemBlockedByAcceptedSwapOnOfferedSide(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	requester := newTestUser(t, database, "requester@example.com", 0, false)
	requested := newTestItem(t, database, owner.ID, model.ItemStatusActive)
	offered := newTestItem(t, database, requester.ID, model.ItemStatusActive)

	swap, err := CreateSwap(ctx, database, &model.Swap{
		RequesterUserID: requester.ID,
		OwnerUserID:     owner.ID,
		RequestedItemID: requested.ID,
		OfferedItemID:   &offered.ID,
	})
	require.NoError(t, err)
	require.NoError(t, TransitionSwap(ctx, database, swap.ID, model.SwapStatusPending, model.SwapStatusAccepted))

	err = DeleteItem(ctx, database, offered.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

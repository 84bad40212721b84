package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/internal/db"
	"github.com/rewearhq/rewear/internal/model"
)

func TestCreateAndGetSwap(t *testing.T) {
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
		Message:         "Would love this coat",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusPending, swap.Status)
	assert.Equal(t, "Wool Coat", swap.RequestedItemTitle)
	require.NotNil(t, swap.PointsOffered)
	assert.Equal(t, 50, *swap.PointsOffered)
	assert.Equal(t, "Would love this coat", swap.Message)

	missing, err := GetSwap(ctx, database, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListSwapsByUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	requester := newTestUser(t, database, "requester@example.com", 100, false)
	outsider := newTestUser(t, database, "outsider@example.com", 0, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	offered := 10
	_, err := CreateSwap(ctx, database, &model.Swap{
		RequesterUserID: requester.ID,
		OwnerUserID:     owner.ID,
		RequestedItemID: item.ID,
		PointsOffered:   &offered,
	})
	require.NoError(t, err)

	for _, userID := range []int64{owner.ID, requester.ID} {
		swaps, err := ListSwapsByUser(ctx, database, userID)
		require.NoError(t, err)
		assert.Len(t, swaps, 1)
	}

	swaps, err := ListSwapsByUser(ctx, database, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, swaps)
}

func TestTransitionSwapCAS(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	requester := newTestUser(t, database, "requester@example.com", 100, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	offered := 10
	swap, err := CreateSwap(ctx, database, &model.Swap{
		RequesterUserID: requester.ID,
		OwnerUserID:     owner.ID,
		RequestedItemID: item.ID,
		PointsOffered:   &offered,
	})
	require.NoError(t, err)

	require.NoError(t, TransitionSwap(ctx, database, swap.ID, model.SwapStatusPending, model.SwapStatusAccepted))

	// Losing a race: the swap already left pending.
	err = TransitionSwap(ctx, database, swap.ID, model.SwapStatusPending, model.SwapStatusRejected)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCompleteSwapSettlesPoints(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 20, false)
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
	swap.Status = model.SwapStatusAccepted

	require.NoError(t, CompleteSwap(ctx, database, swap))

	gotSwap, err := GetSwap(ctx, database, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusCompleted, gotSwap.Status)

	gotRequester, err := GetUser(ctx, database, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, gotRequester.Points)

	gotOwner, err := GetUser(ctx, database, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, gotOwner.Points)

	gotItem, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusSwapped, gotItem.Status)

	// A second completion finds the swap already completed.
	err = CompleteSwap(ctx, database, swap)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCompleteSwapDirectItemExchange(t *testing.T) {
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
	swap.Status = model.SwapStatusAccepted

	require.NoError(t, CompleteSwap(ctx, database, swap))

	for _, id := range []int64{requested.ID, offered.ID} {
		item, err := GetItem(ctx, database, id)
		require.NoError(t, err)
		assert.Equal(t, model.ItemStatusSwapped, item.Status)
	}

	// No points involved, balances untouched.
	gotRequester, err := GetUser(ctx, database, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotRequester.Points)
}

func TestCompleteSwapItemNoLongerActive(t *testing.T) {
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
	swap.Status = model.SwapStatusAccepted

	// The item left active between acceptance and settlement.
	require.NoError(t, TransitionItem(ctx, database, item.ID, model.ItemStatusActive, model.ItemStatusRemoved))

	err = CompleteSwap(ctx, database, swap)
	assert.ErrorIs(t, err, ErrConflict)

	// Nothing settled: swap still accepted, no points moved, the item
	// stayed removed instead of jumping to swapped.
	gotSwap, err := GetSwap(ctx, database, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusAccepted, gotSwap.Status)

	gotRequester, err := GetUser(ctx, database, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, gotRequester.Points)

	gotItem, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusRemoved, gotItem.Status)
}

func TestCompleteSwapOfferedItemNoLongerActive(t *testing.T) {
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
	swap.Status = model.SwapStatusAccepted

	require.NoError(t, TransitionItem(ctx, database, offered.ID, model.ItemStatusActive, model.ItemStatusRemoved))

	err = CompleteSwap(ctx, database, swap)
	assert.ErrorIs(t, err, ErrConflict)

	// The requested item's flip rolled back with the rest.
	gotRequested, err := GetItem(ctx, database, requested.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusActive, gotRequested.Status)
}

func TestCompleteSwapInsufficientPoints(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com", 0, false)
	requester := newTestUser(t, database, "requester@example.com", 100, false)
	item := newTestItem(t, database, owner.ID, model.ItemStatusActive)

	offered := 80
	swap, err := CreateSwap(ctx, database, &model.Swap{
		RequesterUserID: requester.ID,
		OwnerUserID:     owner.ID,
		RequestedItemID: item.ID,
		PointsOffered:   &offered,
	})
	require.NoError(t, err)
	require.NoError(t, TransitionSwap(ctx, database, swap.ID, model.SwapStatusPending, model.SwapStatusAccepted))
	swap.Status = model.SwapStatusAccepted

	// Balance dropped below the offer between acceptance and settlement.
	_, err = database.Exec(`UPDATE users SET points = 30 WHERE id = ?`, requester.ID)
	require.NoError(t, err)

	err = CompleteSwap(ctx, database, swap)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// The whole settlement rolled back: swap still accepted, item untouched.
	gotSwap, err := GetSwap(ctx, database, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusAccepted, gotSwap.Status)

	gotItem, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusActive, gotItem.Status)
}

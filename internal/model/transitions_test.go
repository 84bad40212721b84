package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{ItemStatusPending, ItemStatusActive},
		{ItemStatusPending, ItemStatusRejected},
		{ItemStatusActive, ItemStatusSwapped},
		{ItemStatusActive, ItemStatusRemoved},
		{ItemStatusActive, ItemStatusFlagged},
		{ItemStatusFlagged, ItemStatusActive},
		{ItemStatusFlagged, ItemStatusRemoved},
	}
	for _, tt := range allowed {
		assert.True(t, ItemCanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		{ItemStatusPending, ItemStatusSwapped},
		{ItemStatusPending, ItemStatusFlagged},
		{ItemStatusRejected, ItemStatusActive},
		{ItemStatusSwapped, ItemStatusActive},
		{ItemStatusRemoved, ItemStatusActive},
		{ItemStatusActive, ItemStatusPending},
		{ItemStatusActive, ItemStatusActive},
	}
	for _, tt := range denied {
		assert.False(t, ItemCanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSwapTransitions(t *testing.T) {
	assert.True(t, SwapCanTransition(SwapStatusPending, SwapStatusAccepted))
	assert.True(t, SwapCanTransition(SwapStatusPending, SwapStatusRejected))
	assert.True(t, SwapCanTransition(SwapStatusAccepted, SwapStatusCompleted))

	denied := []struct{ from, to string }{
		{SwapStatusPending, SwapStatusCompleted},
		{SwapStatusAccepted, SwapStatusRejected},
		{SwapStatusAccepted, SwapStatusPending},
		{SwapStatusRejected, SwapStatusAccepted},
		{SwapStatusCompleted, SwapStatusPending},
		{SwapStatusCompleted, SwapStatusCompleted},
	}
	for _, tt := range denied {
		assert.False(t, SwapCanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSwapIsParty(t *testing.T) {
	s := &Swap{RequesterUserID: 1, OwnerUserID: 2}
	assert.True(t, s.IsParty(1))
	assert.True(t, s.IsParty(2))
	assert.False(t, s.IsParty(3))
}

package model

import "time"

// Swap represents a proposed exchange: the requester asks for the
// owner's item, offering either one of their own items or points.
type Swap struct {
	ID              int64     `json:"id"`
	RequesterUserID int64     `json:"requester_user_id"`
	OwnerUserID     int64     `json:"owner_user_id"`
	RequestedItemID int64     `json:"requested_item_id"`
	OfferedItemID   *int64    `json:"offered_item_id,omitempty"`
	PointsOffered   *int      `json:"points_offered,omitempty"`
	Status          string    `json:"status"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	RequestedItemTitle string `json:"requested_item_title,omitempty"`
	OfferedItemTitle   string `json:"offered_item_title,omitempty"`
}

// Swap statuses.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusRejected  = "rejected"
	SwapStatusCompleted = "completed"
)

// swapTransitions lists the legal swap status transitions.
var swapTransitions = map[string][]string{
	SwapStatusPending:  {SwapStatusAccepted, SwapStatusRejected},
	SwapStatusAccepted: {SwapStatusCompleted},
}

// SwapCanTransition reports whether a swap may move from one status to
// another.
func SwapCanTransition(from, to string) bool {
	for _, s := range swapTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsParty reports whether the given user is one of the two parties to
// the swap. Only parties may mutate it.
func (s *Swap) IsParty(userID int64) bool {
	return s.RequesterUserID == userID || s.OwnerUserID == userID
}

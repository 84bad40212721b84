package model

import "time"

// WishlistEntry associates a user with an item they saved for later.
// At most one entry exists per (user, item) pair.
type WishlistEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	Item *Item `json:"item,omitempty"`
}

// Stats holds the aggregate counts shown on the admin dashboard.
type Stats struct {
	TotalItems     int `json:"total_items"`
	TotalUsers     int `json:"total_users"`
	TotalSwaps     int `json:"total_swaps"`
	PendingReviews int `json:"pending_reviews"`
}

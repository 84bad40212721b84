package model

import "time"

// Item represents a clothing listing.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category"`
	Size        string    `json:"size,omitempty"`
	Condition   string    `json:"condition"`
	Color       string    `json:"color,omitempty"`
	Material    string    `json:"material,omitempty"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	Points      int       `json:"points"`
	Status      string    `json:"status"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item statuses. New listings always start as pending; swapped, removed
// and rejected are terminal.
const (
	ItemStatusPending  = "pending"
	ItemStatusActive   = "active"
	ItemStatusRejected = "rejected"
	ItemStatusSwapped  = "swapped"
	ItemStatusRemoved  = "removed"
	ItemStatusFlagged  = "flagged"
)

// itemTransitions lists the legal listing status transitions.
var itemTransitions = map[string][]string{
	ItemStatusPending: {ItemStatusActive, ItemStatusRejected},
	ItemStatusActive:  {ItemStatusSwapped, ItemStatusRemoved, ItemStatusFlagged},
	ItemStatusFlagged: {ItemStatusActive, ItemStatusRemoved},
}

// ItemCanTransition reports whether a listing may move from one status
// to another.
func ItemCanTransition(from, to string) bool {
	for _, s := range itemTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ItemStatusValid reports whether s is a known listing status.
func ItemStatusValid(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusActive, ItemStatusRejected,
		ItemStatusSwapped, ItemStatusRemoved, ItemStatusFlagged:
		return true
	}
	return false
}

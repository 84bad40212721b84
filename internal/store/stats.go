package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewearhq/rewear/internal/model"
)

// GetStats returns the aggregate counts for the admin dashboard.
func GetStats(ctx context.Context, db *sql.DB) (*model.Stats, error) {
	stats := &model.Stats{}
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM items),
		        (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM swaps),
		        (SELECT COUNT(*) FROM items WHERE status = ?)`,
		model.ItemStatusPending,
	).Scan(&stats.TotalItems, &stats.TotalUsers, &stats.TotalSwaps, &stats.PendingReviews)
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	return stats, nil
}

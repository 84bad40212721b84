package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/internal/model"
)

// Shared fixtures for the store tests.

func newTestUser(t *testing.T, db *sql.DB, email string, points int, isAdmin bool) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), db, email, "hash", "Test User", isAdmin)
	require.NoError(t, err)
	if points != 0 {
		_, err = db.Exec(`UPDATE users SET points = ? WHERE id = ?`, points, user.ID)
		require.NoError(t, err)
		user.Points = points
	}
	return user
}

func newTestItem(t *testing.T, db *sql.DB, ownerID int64, status string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), db, &model.Item{
		Title:       "Wool Coat",
		Description: "Warm winter coat",
		Category:    "outerwear",
		Condition:   "like-new",
		Tags:        []string{"winter", "wool"},
		Images:      []string{"/uploads/test.jpg"},
		Points:      300,
		OwnerID:     ownerID,
	})
	require.NoError(t, err)
	if status != "" && status != model.ItemStatusPending {
		_, err = db.Exec(`UPDATE items SET status = ? WHERE id = ?`, status, item.ID)
		require.NoError(t, err)
		item.Status = status
	}
	return item
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewearhq/rewear/internal/model"
)

// AddToWishlist saves an item to a user's wishlist. Adding the same
// item twice is a no-op that returns the existing entry.
func AddToWishlist(ctx context.Context, db *sql.DB, userID, itemID int64) (*model.WishlistEntry, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO wishlists (user_id, item_id) VALUES (?, ?)
		 ON CONFLICT (user_id, item_id) DO NOTHING`,
		userID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("adding to wishlist: %w", err)
	}

	entry := &model.WishlistEntry{}
	err = db.QueryRowContext(ctx,
		`SELECT id, user_id, item_id, created_at FROM wishlists WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	).Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting wishlist entry: %w", err)
	}
	return entry, nil
}

// ListWishlistByUser returns a user's wishlist with the items joined in,
// newest first.
func ListWishlistByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.WishlistEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT w.id, w.user_id, w.item_id, w.created_at, `+prefixedItemColumns("i")+`
		 FROM wishlists w
		 JOIN items i ON i.id = w.item_id
		 WHERE w.user_id = ?
		 ORDER BY w.created_at DESC, w.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist: %w", err)
	}
	defer rows.Close()

	var entries []model.WishlistEntry
	for rows.Next() {
		var entry model.WishlistEntry
		item := &model.Item{}
		var brand, size, color, material sql.NullString
		var tags, images string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.CreatedAt,
			&item.ID, &item.Title, &item.Description, &brand, &item.Category, &size,
			&item.Condition, &color, &material, &tags, &images, &item.Points, &item.Status,
			&item.OwnerID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning wishlist entry: %w", err)
		}
		item.Brand = brand.String
		item.Size = size.String
		item.Color = color.String
		item.Material = material.String
		if err := decodeItemArrays(item, tags, images); err != nil {
			return nil, err
		}
		entry.Item = item
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// RemoveFromWishlist deletes a user's wishlist entry for an item.
// Returns false if no entry existed.
func RemoveFromWishlist(ctx context.Context, db *sql.DB, userID, itemID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM wishlists WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	)
	if err != nil {
		return false, fmt.Errorf("removing from wishlist: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking wishlist removal: %w", err)
	}
	return n > 0, nil
}

func prefixedItemColumns(alias string) string {
	return alias + `.id, ` + alias + `.title, ` + alias + `.description, ` + alias + `.brand, ` +
		alias + `.category, ` + alias + `.size, ` + alias + `.condition, ` + alias + `.color, ` +
		alias + `.material, ` + alias + `.tags, ` + alias + `.images, ` + alias + `.points, ` +
		alias + `.status, ` + alias + `.owner_id, ` + alias + `.created_at, ` + alias + `.updated_at`
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rewearhq/rewear/internal/model"
)

// ItemFilter narrows ListItems results. Zero values mean "no filter".
type ItemFilter struct {
	Category  string
	Condition string
	Status    string
	Search    string
	Limit     int
	Offset    int
}

const itemColumns = `id, title, description, brand, category, size, condition, color, material,
	        tags, images, points, status, owner_id, created_at, updated_at`

// CreateItem inserts a new listing. The status is always pending
// regardless of what the caller set on the item.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	tags, err := json.Marshal(emptyIfNil(item.Tags))
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}
	images, err := json.Marshal(emptyIfNil(item.Images))
	if err != nil {
		return nil, fmt.Errorf("encoding images: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, brand, category, size, condition, color, material,
		                    tags, images, points, status, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Description, nullable(item.Brand), item.Category, nullable(item.Size),
		item.Condition, nullable(item.Color), nullable(item.Material),
		string(tags), string(images), item.Points, model.ItemStatusPending, item.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, newest first. Search
// matches title or description case-insensitively.
func ListItems(ctx context.Context, db *sql.DB, filter ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Condition != "" {
		query += ` AND condition = ?`
		args = append(args, filter.Condition)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += ` AND (title LIKE ? OR description LIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += ` LIMIT -1`
		}
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListItemsByOwner returns all of a user's listings, newest first.
func ListItemsByOwner(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items by owner: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItemDetails updates a listing's editable attributes. The status
// is not touched here; use TransitionItem for that.
func UpdateItemDetails(ctx context.Context, db *sql.DB, item *model.Item) error {
	tags, err := json.Marshal(emptyIfNil(item.Tags))
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, brand = ?, category = ?, size = ?,
		                  condition = ?, color = ?, material = ?, tags = ?, points = ?,
		                  updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Title, item.Description, nullable(item.Brand), item.Category, nullable(item.Size),
		item.Condition, nullable(item.Color), nullable(item.Material), string(tags), item.Points,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// TransitionItem moves a listing from one status to another with a
// compare-and-swap so concurrent transitions cannot race. Returns
// ErrConflict if the item was not in the expected status.
func TransitionItem(ctx context.Context, db *sql.DB, id int64, from, to string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("transitioning item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking item transition: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// DeleteItem removes a listing. Wishlist entries pointing at it are
// dropped and any pending swaps over it are rejected; swaps keep their
// item reference for history, so the row itself is marked removed
// rather than deleted. An accepted swap is a commitment to settle, so
// deletion is refused with ErrConflict while one references the item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var accepted int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swaps
		 WHERE status = ? AND (requested_item_id = ? OR offered_item_id = ?)`,
		model.SwapStatusAccepted, id, id,
	).Scan(&accepted); err != nil {
		return fmt.Errorf("checking accepted swaps: %w", err)
	}
	if accepted > 0 {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM wishlists WHERE item_id = ?`, id,
	); err != nil {
		return fmt.Errorf("clearing wishlist entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE status = ? AND (requested_item_id = ? OR offered_item_id = ?)`,
		model.SwapStatusRejected, model.SwapStatusPending, id, id,
	); err != nil {
		return fmt.Errorf("rejecting open swaps: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.ItemStatusRemoved, id,
	); err != nil {
		return fmt.Errorf("removing item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item removal: %w", err)
	}
	return nil
}

func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var brand, size, color, material sql.NullString
	var tags, images string
	err := row.Scan(&item.ID, &item.Title, &item.Description, &brand, &item.Category, &size,
		&item.Condition, &color, &material, &tags, &images, &item.Points, &item.Status,
		&item.OwnerID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Brand = brand.String
	item.Size = size.String
	item.Color = color.String
	item.Material = material.String
	if err := decodeItemArrays(item, tags, images); err != nil {
		return nil, err
	}
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		var brand, size, color, material sql.NullString
		var tags, images string
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &brand, &item.Category, &size,
			&item.Condition, &color, &material, &tags, &images, &item.Points, &item.Status,
			&item.OwnerID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Brand = brand.String
		item.Size = size.String
		item.Color = color.String
		item.Material = material.String
		if err := decodeItemArrays(&item, tags, images); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func decodeItemArrays(item *model.Item, tags, images string) error {
	if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
		return fmt.Errorf("decoding tags: %w", err)
	}
	if err := json.Unmarshal([]byte(images), &item.Images); err != nil {
		return fmt.Errorf("decoding images: %w", err)
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

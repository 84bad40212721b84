package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewearhq/rewear/internal/model"
)

// CreateSwap inserts a new swap request in the pending status.
func CreateSwap(ctx context.Context, db *sql.DB, swap *model.Swap) (*model.Swap, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO swaps (requester_user_id, owner_user_id, requested_item_id,
		                    offered_item_id, points_offered, status, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		swap.RequesterUserID, swap.OwnerUserID, swap.RequestedItemID,
		swap.OfferedItemID, swap.PointsOffered, model.SwapStatusPending, nullable(swap.Message),
	)
	if err != nil {
		return nil, fmt.Errorf("creating swap: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting swap id: %w", err)
	}

	return GetSwap(ctx, db, id)
}

const swapColumns = `s.id, s.requester_user_id, s.owner_user_id, s.requested_item_id,
	        s.offered_item_id, s.points_offered, s.status, s.message, s.created_at, s.updated_at,
	        ri.title AS requested_item_title, oi.title AS offered_item_title`

const swapJoins = ` FROM swaps s
	 JOIN items ri ON ri.id = s.requested_item_id
	 LEFT JOIN items oi ON oi.id = s.offered_item_id`

// GetSwap returns a swap by ID with item titles joined in.
func GetSwap(ctx context.Context, db *sql.DB, id int64) (*model.Swap, error) {
	s := &model.Swap{}
	var message, offeredTitle sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+swapColumns+swapJoins+` WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.RequesterUserID, &s.OwnerUserID, &s.RequestedItemID,
		&s.OfferedItemID, &s.PointsOffered, &s.Status, &message, &s.CreatedAt, &s.UpdatedAt,
		&s.RequestedItemTitle, &offeredTitle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting swap: %w", err)
	}
	s.Message = message.String
	s.OfferedItemTitle = offeredTitle.String
	return s, nil
}

// ListSwapsByUser returns all swaps the user is a party to, newest first.
func ListSwapsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.Swap, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+swapColumns+swapJoins+`
		 WHERE s.requester_user_id = ? OR s.owner_user_id = ?
		 ORDER BY s.created_at DESC, s.id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing swaps: %w", err)
	}
	defer rows.Close()

	var swaps []model.Swap
	for rows.Next() {
		var s model.Swap
		var message, offeredTitle sql.NullString
		if err := rows.Scan(&s.ID, &s.RequesterUserID, &s.OwnerUserID, &s.RequestedItemID,
			&s.OfferedItemID, &s.PointsOffered, &s.Status, &message, &s.CreatedAt, &s.UpdatedAt,
			&s.RequestedItemTitle, &offeredTitle); err != nil {
			return nil, fmt.Errorf("scanning swap: %w", err)
		}
		s.Message = message.String
		s.OfferedItemTitle = offeredTitle.String
		swaps = append(swaps, s)
	}
	return swaps, rows.Err()
}

// TransitionSwap moves a swap from one status to another with a
// compare-and-swap. Returns ErrConflict if the swap was not in the
// expected status. Settlement side effects belong to CompleteSwap.
func TransitionSwap(ctx context.Context, db *sql.DB, id int64, from, to string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("transitioning swap: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking swap transition: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// CompleteSwap settles an accepted swap in a single transaction: the
// swap moves accepted → completed, points move from requester to owner
// if points were offered, and both items are marked swapped. The swap
// status update is a compare-and-swap, so two concurrent completions
// cannot settle twice.
func CompleteSwap(ctx context.Context, db *sql.DB, swap *model.Swap) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.SwapStatusCompleted, swap.ID, model.SwapStatusAccepted,
	)
	if err != nil {
		return fmt.Errorf("completing swap: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking swap completion: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}

	if swap.PointsOffered != nil {
		offered := *swap.PointsOffered

		// Debit the requester only if the balance still covers the
		// offer; the balance may have changed since the swap was made.
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET points = points - ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND points >= ?`,
			offered, swap.RequesterUserID, offered,
		)
		if err != nil {
			return fmt.Errorf("debiting requester: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking requester debit: %w", err)
		}
		if n == 0 {
			return ErrInsufficientPoints
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET points = points + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			offered, swap.OwnerUserID,
		); err != nil {
			return fmt.Errorf("crediting owner: %w", err)
		}
	}

	// Items only move to swapped from active. An item that left active
	// since acceptance aborts the whole settlement.
	if err := markItemSwapped(ctx, tx, swap.RequestedItemID); err != nil {
		return err
	}
	if swap.OfferedItemID != nil {
		if err := markItemSwapped(ctx, tx, *swap.OfferedItemID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing swap settlement: %w", err)
	}
	return nil
}

func markItemSwapped(ctx context.Context, tx *sql.Tx, itemID int64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.ItemStatusSwapped, itemID, model.ItemStatusActive,
	)
	if err != nil {
		return fmt.Errorf("marking item swapped: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking item swap mark: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewearhq/rewear/internal/model"
)

// CreateUser creates a new user account.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, displayName string, isAdmin bool) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, display_name, is_admin) VALUES (?, ?, ?, ?)`,
		email, passwordHash, displayName, isAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	return getUser(ctx, db, `WHERE id = ?`, id)
}

// GetUserByEmail returns a user by email.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	return getUser(ctx, db, `WHERE email = ?`, email)
}

func getUser(ctx context.Context, db *sql.DB, where string, arg any) (*model.User, error) {
	user := &model.User{}
	var displayName, profileImage sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, display_name, profile_image, points, is_admin, created_at, updated_at
		 FROM users `+where, arg,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &displayName, &profileImage,
		&user.Points, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	user.DisplayName = displayName.String
	user.ProfileImage = profileImage.String
	return user, nil
}

// UpdateUserProfile updates a user's display name and profile image.
func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, displayName, profileImage string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, profile_image = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		displayName, profileImage, id,
	)
	if err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}
	return nil
}

// UpdateUserPassword sets a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

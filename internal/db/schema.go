package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Tags and images are stored as
// JSON-encoded arrays; marshaling happens in the store layer.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name  TEXT,
    profile_image TEXT,
    points        INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
    is_admin      INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    brand       TEXT,
    category    TEXT NOT NULL,
    size        TEXT,
    condition   TEXT NOT NULL,
    color       TEXT,
    material    TEXT,
    tags        TEXT NOT NULL DEFAULT '[]',
    images      TEXT NOT NULL DEFAULT '[]',
    points      INTEGER NOT NULL,
    status      TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'active', 'rejected', 'swapped', 'removed', 'flagged')),
    owner_id    INTEGER NOT NULL REFERENCES users(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id);

CREATE TABLE IF NOT EXISTS swaps (
    id                INTEGER PRIMARY KEY,
    requester_user_id INTEGER NOT NULL REFERENCES users(id),
    owner_user_id     INTEGER NOT NULL REFERENCES users(id),
    requested_item_id INTEGER NOT NULL REFERENCES items(id),
    offered_item_id   INTEGER REFERENCES items(id),
    points_offered    INTEGER CHECK (points_offered > 0),
    status            TEXT NOT NULL DEFAULT 'pending'
                      CHECK (status IN ('pending', 'accepted', 'rejected', 'completed')),
    message           TEXT,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_swaps_requester ON swaps(requester_user_id);
CREATE INDEX IF NOT EXISTS idx_swaps_owner ON swaps(owner_user_id);

CREATE TABLE IF NOT EXISTS wishlists (
    id         INTEGER PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    item_id    INTEGER NOT NULL REFERENCES items(id),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, item_id)
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: cover the public browse query (status + recency).
	`CREATE INDEX IF NOT EXISTS idx_items_status_created
	     ON items(status, created_at DESC)`,
}

// Migrate creates the schema and applies migrations.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}

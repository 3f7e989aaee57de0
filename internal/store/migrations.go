package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "decks: nested deck tree",
		SQL: `
CREATE TABLE decks (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    parent_id   TEXT REFERENCES decks(id) ON DELETE CASCADE,
    last_review INTEGER,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX idx_decks_parent     ON decks(parent_id);
CREATE INDEX idx_decks_created_at ON decks(created_at DESC);
`,
	},
	{
		Version:     2,
		Description: "cards: flashcards with review state",
		SQL: `
CREATE TABLE cards (
    id          TEXT PRIMARY KEY,
    deck_id     TEXT NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
    front       TEXT NOT NULL,
    back        TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'learning', 'reviewing')),
    n           INTEGER NOT NULL DEFAULT 0 CHECK (n >= 0),
    interval    INTEGER NOT NULL DEFAULT 0 CHECK (interval >= 0),
    due_date    INTEGER NOT NULL,
    last_review INTEGER,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX idx_cards_deck       ON cards(deck_id);
CREATE INDEX idx_cards_due        ON cards(due_date);
CREATE INDEX idx_cards_created_at ON cards(created_at DESC);
`,
	},
	{
		Version:     3,
		Description: "reviews: append-only rating log",
		SQL: `
CREATE TABLE reviews (
    id         TEXT PRIMARY KEY,
    deck_id    TEXT NOT NULL,
    card_id    TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    rating     TEXT NOT NULL CHECK (rating IN ('forgot', 'hard', 'good', 'easy')),
    created_at INTEGER NOT NULL
);

CREATE INDEX idx_reviews_card ON reviews(card_id);
CREATE INDEX idx_reviews_deck ON reviews(deck_id);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}

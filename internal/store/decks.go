package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Deck is one node of the deck tree. ParentID is empty for roots.
type Deck struct {
	ID         string
	Name       string
	ParentID   string
	LastReview *int64
	CreatedAt  int64
	UpdatedAt  int64
}

// DeckCounts is a deck annotated with aggregated card counts over the
// deck's own cards (not descendants).
type DeckCounts struct {
	Deck
	New       int
	Learning  int
	Reviewing int
	CardCount int
}

const deckCountsQuery = `
	SELECT d.id, d.name, d.parent_id, d.last_review, d.created_at, d.updated_at,
	       COALESCE(SUM(CASE WHEN c.status = 'new' THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN c.status = 'learning' THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN c.status = 'reviewing' THEN 1 ELSE 0 END), 0),
	       COUNT(c.id)
	FROM decks d
	LEFT JOIN cards c ON c.deck_id = d.id
`

// InsertDeck inserts a new deck, generating its id and timestamps.
func (db *DB) InsertDeck(d *Deck) error {
	now := time.Now().UnixMilli()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	_, err := db.Exec(`
		INSERT INTO decks (id, name, parent_id, last_review, created_at, updated_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?)
	`, d.ID, d.Name, d.ParentID, d.LastReview, now, now)
	if err != nil {
		return fmt.Errorf("insert deck: %w", err)
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

// GetDeck returns a deck by id, or nil if not found.
func (db *DB) GetDeck(id string) (*Deck, error) {
	return getDeck(db.DB, id)
}

func getDeck(q querier, id string) (*Deck, error) {
	var d Deck
	var parentID sql.NullString
	var lastReview sql.NullInt64
	err := q.QueryRow(`
		SELECT id, name, parent_id, last_review, created_at, updated_at
		FROM decks WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &parentID, &lastReview, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	d.ParentID = parentID.String
	if lastReview.Valid {
		d.LastReview = &lastReview.Int64
	}
	return &d, nil
}

// GetDeckCounts returns a deck with aggregated card counts, or nil if
// not found.
func (db *DB) GetDeckCounts(id string) (*DeckCounts, error) {
	rows, err := db.Query(deckCountsQuery+`
		WHERE d.id = ?
		GROUP BY d.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get deck counts: %w", err)
	}
	defer rows.Close()

	decks, err := scanDeckCounts(rows)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, nil
	}
	return &decks[0], nil
}

// ListDecksByParent returns the direct children of parentID (or root
// decks when parentID is empty), each with aggregated card counts,
// ordered by created_at descending.
func (db *DB) ListDecksByParent(parentID string) ([]DeckCounts, error) {
	var rows *sql.Rows
	var err error
	if parentID == "" {
		rows, err = db.Query(deckCountsQuery + `
			WHERE d.parent_id IS NULL
			GROUP BY d.id
			ORDER BY d.created_at DESC
		`)
	} else {
		rows, err = db.Query(deckCountsQuery+`
			WHERE d.parent_id = ?
			GROUP BY d.id
			ORDER BY d.created_at DESC
		`, parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("list decks by parent: %w", err)
	}
	defer rows.Close()
	return scanDeckCounts(rows)
}

// RenameDeck updates a deck's name and updated_at.
func (db *DB) RenameDeck(id, name string) error {
	now := time.Now().UnixMilli()
	if _, err := db.Exec(`UPDATE decks SET name = ?, updated_at = ? WHERE id = ?`, name, now, id); err != nil {
		return fmt.Errorf("rename deck: %w", err)
	}
	return nil
}

// SetDeckParent reparents a deck. An empty parentID moves it to root.
// Cycle checking is the caller's responsibility.
func (db *DB) SetDeckParent(id, parentID string) error {
	now := time.Now().UnixMilli()
	if _, err := db.Exec(`
		UPDATE decks SET parent_id = NULLIF(?, ''), updated_at = ? WHERE id = ?
	`, parentID, now, id); err != nil {
		return fmt.Errorf("set deck parent: %w", err)
	}
	return nil
}

// SetDeckLastReview records when the deck was last reviewed.
func (db *DB) SetDeckLastReview(id string, at int64) error {
	now := time.Now().UnixMilli()
	if _, err := db.Exec(`
		UPDATE decks SET last_review = ?, updated_at = ? WHERE id = ?
	`, at, now, id); err != nil {
		return fmt.Errorf("set deck last review: %w", err)
	}
	return nil
}

// DeleteDecks removes the given decks inside the transaction. Cards and
// reviews owned by them must be deleted first by the caller.
func (t *Tx) DeleteDecks(ids []string) error {
	ph, args := placeholders(ids)
	if ph == "" {
		return nil
	}
	if _, err := t.tx.Exec(`DELETE FROM decks WHERE id IN (`+ph+`)`, args...); err != nil {
		return fmt.Errorf("delete decks: %w", err)
	}
	return nil
}

// GetDeck returns a deck by id inside the transaction, or nil if not found.
func (t *Tx) GetDeck(id string) (*Deck, error) {
	return getDeck(t.tx, id)
}

func scanDeckCounts(rows *sql.Rows) ([]DeckCounts, error) {
	var decks []DeckCounts
	for rows.Next() {
		var d DeckCounts
		var parentID sql.NullString
		var lastReview sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Name, &parentID, &lastReview, &d.CreatedAt, &d.UpdatedAt,
			&d.New, &d.Learning, &d.Reviewing, &d.CardCount); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		d.ParentID = parentID.String
		if lastReview.Valid {
			d.LastReview = &lastReview.Int64
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// placeholders builds a "?, ?, ?" list and matching args for an IN clause.
func placeholders(ids []string) (string, []any) {
	if len(ids) == 0 {
		return "", nil
	}
	ph := ""
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			ph += ","
		}
		ph += "?"
		args[i] = id
	}
	return ph, args
}

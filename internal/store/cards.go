package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Card is one flashcard. Interval is minutes until the next review,
// DueDate and timestamps are Unix milliseconds.
type Card struct {
	ID         string
	DeckID     string
	Front      string
	Back       string
	Status     string
	N          int
	Interval   int
	DueDate    int64
	LastReview *int64
	CreatedAt  int64
	UpdatedAt  int64
}

const cardColumns = `id, deck_id, front, back, status, n, interval, due_date, last_review, created_at, updated_at`

// InsertCard inserts a new card, generating its id and timestamps. A
// zero DueDate defaults to now, making the card immediately due.
func (db *DB) InsertCard(c *Card) error {
	return insertCard(db.DB, c)
}

// InsertCard inserts a card inside the transaction.
func (t *Tx) InsertCard(c *Card) error {
	return insertCard(t.tx, c)
}

func insertCard(q querier, c *Card) error {
	now := time.Now().UnixMilli()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = "new"
	}
	if c.DueDate == 0 {
		c.DueDate = now
	}
	_, err := q.Exec(`
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.DeckID, c.Front, c.Back, c.Status, c.N, c.Interval, c.DueDate, c.LastReview, now, now)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// GetCard returns a card by id, or nil if not found.
func (db *DB) GetCard(id string) (*Card, error) {
	return getCard(db.DB, id)
}

// GetCard returns a card by id inside the transaction, or nil if not found.
func (t *Tx) GetCard(id string) (*Card, error) {
	return getCard(t.tx, id)
}

func getCard(q querier, id string) (*Card, error) {
	row := q.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	var c Card
	var lastReview sql.NullInt64
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Status, &c.N, &c.Interval,
		&c.DueDate, &lastReview, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	if lastReview.Valid {
		c.LastReview = &lastReview.Int64
	}
	return &c, nil
}

// ListAllCards returns every card, ordered by created_at descending.
func (db *DB) ListAllCards() ([]Card, error) {
	rows, err := db.Query(`SELECT ` + cardColumns + ` FROM cards ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all cards: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListCardsByDecks returns the cards owned by any of the given decks,
// ordered by created_at descending.
func (db *DB) ListCardsByDecks(deckIDs []string) ([]Card, error) {
	ph, args := placeholders(deckIDs)
	if ph == "" {
		return nil, nil
	}
	rows, err := db.Query(`
		SELECT `+cardColumns+` FROM cards WHERE deck_id IN (`+ph+`)
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards by decks: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListCardIDsByDeck returns the ids of cards owned directly by deckID.
func (t *Tx) ListCardIDsByDeck(deckID string) ([]string, error) {
	rows, err := t.tx.Query(`SELECT id FROM cards WHERE deck_id = ?`, deckID)
	if err != nil {
		return nil, fmt.Errorf("list card ids by deck: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan card id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DueCards returns cards with due_date <= now. A non-empty deckIDs
// restricts the result to those decks. Ordered by due_date then id so
// the selection is stable within a call.
func (db *DB) DueCards(deckIDs []string, now int64) ([]Card, error) {
	var rows *sql.Rows
	var err error
	if len(deckIDs) == 0 {
		rows, err = db.Query(`
			SELECT `+cardColumns+` FROM cards WHERE due_date <= ?
			ORDER BY due_date, id
		`, now)
	} else {
		ph, args := placeholders(deckIDs)
		args = append(args, now)
		rows, err = db.Query(`
			SELECT `+cardColumns+` FROM cards WHERE deck_id IN (`+ph+`) AND due_date <= ?
			ORDER BY due_date, id
		`, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("due cards: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// UpdateCardContent replaces a card's front and back text.
func (db *DB) UpdateCardContent(id, front, back string) error {
	now := time.Now().UnixMilli()
	if _, err := db.Exec(`
		UPDATE cards SET front = ?, back = ?, updated_at = ? WHERE id = ?
	`, front, back, now, id); err != nil {
		return fmt.Errorf("update card content: %w", err)
	}
	return nil
}

// SetCardDeck moves a card to another deck.
func (db *DB) SetCardDeck(id, deckID string) error {
	now := time.Now().UnixMilli()
	if _, err := db.Exec(`
		UPDATE cards SET deck_id = ?, updated_at = ? WHERE id = ?
	`, deckID, now, id); err != nil {
		return fmt.Errorf("set card deck: %w", err)
	}
	return nil
}

// UpdateCardScheduling applies the outcome of one review inside the
// transaction: new counters, status, and due date.
func (t *Tx) UpdateCardScheduling(id string, n, interval int, status string, dueDate, lastReview int64) error {
	now := time.Now().UnixMilli()
	if _, err := t.tx.Exec(`
		UPDATE cards SET n = ?, interval = ?, status = ?, due_date = ?, last_review = ?, updated_at = ?
		WHERE id = ?
	`, n, interval, status, dueDate, lastReview, now, id); err != nil {
		return fmt.Errorf("update card scheduling: %w", err)
	}
	return nil
}

// ResetCard returns a card to the new-card baseline inside the
// transaction: n=0, interval=0, immediately due, no review history on
// the row itself.
func (t *Tx) ResetCard(id string, now int64) error {
	if _, err := t.tx.Exec(`
		UPDATE cards SET status = 'new', n = 0, interval = 0, due_date = ?, last_review = NULL, updated_at = ?
		WHERE id = ?
	`, now, now, id); err != nil {
		return fmt.Errorf("reset card: %w", err)
	}
	return nil
}

// ResetCardsByDeck returns every card owned directly by deckID to the
// new-card baseline inside the transaction.
func (t *Tx) ResetCardsByDeck(deckID string, now int64) error {
	if _, err := t.tx.Exec(`
		UPDATE cards SET status = 'new', n = 0, interval = 0, due_date = ?, last_review = NULL, updated_at = ?
		WHERE deck_id = ?
	`, now, now, deckID); err != nil {
		return fmt.Errorf("reset cards by deck: %w", err)
	}
	return nil
}

// DeleteCard removes a single card inside the transaction. Its reviews
// must be deleted first by the caller.
func (t *Tx) DeleteCard(id string) error {
	if _, err := t.tx.Exec(`DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

// DeleteCardsByDecks removes every card owned by the given decks inside
// the transaction.
func (t *Tx) DeleteCardsByDecks(deckIDs []string) error {
	ph, args := placeholders(deckIDs)
	if ph == "" {
		return nil
	}
	if _, err := t.tx.Exec(`DELETE FROM cards WHERE deck_id IN (`+ph+`)`, args...); err != nil {
		return fmt.Errorf("delete cards by decks: %w", err)
	}
	return nil
}

func scanCards(rows *sql.Rows) ([]Card, error) {
	var cards []Card
	for rows.Next() {
		var c Card
		var lastReview sql.NullInt64
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Status, &c.N, &c.Interval,
			&c.DueDate, &lastReview, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if lastReview.Valid {
			c.LastReview = &lastReview.Int64
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

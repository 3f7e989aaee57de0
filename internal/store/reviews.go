package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Review is one immutable rating record. Rows are never updated; they
// are only deleted as a cascade of their card or deck, or by an
// explicit history reset.
type Review struct {
	ID        string
	DeckID    string
	CardID    string
	Rating    string
	CreatedAt int64
}

// InsertReview appends a review inside the transaction, generating its
// id and timestamp.
func (t *Tx) InsertReview(r *Review) error {
	now := time.Now().UnixMilli()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := t.tx.Exec(`
		INSERT INTO reviews (id, deck_id, card_id, rating, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, r.DeckID, r.CardID, r.Rating, now)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	r.CreatedAt = now
	return nil
}

// ListReviews returns reviews scoped by deck and/or card. Empty ids
// leave that dimension unscoped; both empty returns all reviews.
// Ordered by created_at ascending.
func (db *DB) ListReviews(deckID, cardID string) ([]Review, error) {
	query := `SELECT id, deck_id, card_id, rating, created_at FROM reviews`
	var args []any
	switch {
	case deckID != "" && cardID != "":
		query += ` WHERE deck_id = ? AND card_id = ?`
		args = []any{deckID, cardID}
	case deckID != "":
		query += ` WHERE deck_id = ?`
		args = []any{deckID}
	case cardID != "":
		query += ` WHERE card_id = ?`
		args = []any{cardID}
	}
	query += ` ORDER BY created_at`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.DeckID, &r.CardID, &r.Rating, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// DeleteReviewsByCard removes a card's review history inside the
// transaction.
func (t *Tx) DeleteReviewsByCard(cardID string) error {
	if _, err := t.tx.Exec(`DELETE FROM reviews WHERE card_id = ?`, cardID); err != nil {
		return fmt.Errorf("delete reviews by card: %w", err)
	}
	return nil
}

// DeleteReviewsByCards removes the review history of every given card
// inside the transaction.
func (t *Tx) DeleteReviewsByCards(cardIDs []string) error {
	ph, args := placeholders(cardIDs)
	if ph == "" {
		return nil
	}
	if _, err := t.tx.Exec(`DELETE FROM reviews WHERE card_id IN (`+ph+`)`, args...); err != nil {
		return fmt.Errorf("delete reviews by cards: %w", err)
	}
	return nil
}

// DeleteReviewsByDecks removes every review referencing the given decks
// inside the transaction.
func (t *Tx) DeleteReviewsByDecks(deckIDs []string) error {
	ph, args := placeholders(deckIDs)
	if ph == "" {
		return nil
	}
	if _, err := t.tx.Exec(`DELETE FROM reviews WHERE deck_id IN (`+ph+`)`, args...); err != nil {
		return fmt.Errorf("delete reviews by decks: %w", err)
	}
	return nil
}

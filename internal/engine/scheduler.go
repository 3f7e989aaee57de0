package engine

import (
	"fmt"

	"github.com/ckuhn/cardbox/internal/store"
)

// intervalLadder is the fixed review schedule in minutes, indexed by
// the number of prior successful reviews: 1 minute, 1 hour, 1 day,
// 1 week, 1 month. Cards past the end stay at the last rung.
var intervalLadder = []int{1, 60, 1440, 10080, 43200}

// nextInterval returns the minutes until a card reviewed for the n-th
// time is due again.
func nextInterval(n int) int {
	if n >= len(intervalLadder) {
		n = len(intervalLadder) - 1
	}
	return intervalLadder[n]
}

// SubmitReview records one rating for a card and advances its review
// state: interval from the ladder, due date now+interval, n+1, status
// relabeled from the new count. The card update and the review append
// happen in one transaction. Returns the updated card.
func (e *Engine) SubmitReview(cardID, rating string) (*store.Card, error) {
	if !validRating(rating) {
		return nil, fmt.Errorf("%w: unknown rating %q", ErrValidation, rating)
	}

	now := e.now().UnixMilli()
	var updated store.Card
	err := e.db.WithTx(func(tx *store.Tx) error {
		card, err := tx.GetCard(cardID)
		if err != nil {
			return err
		}
		if card == nil {
			return notFound("card", cardID)
		}

		interval := nextInterval(card.N)
		due := now + int64(interval)*60_000
		n := card.N + 1

		if err := tx.UpdateCardScheduling(cardID, n, interval, statusForN(n), due, now); err != nil {
			return err
		}
		if err := tx.InsertReview(&store.Review{DeckID: card.DeckID, CardID: cardID, Rating: rating}); err != nil {
			return err
		}

		updated = *card
		updated.N = n
		updated.Interval = interval
		updated.Status = statusForN(n)
		updated.DueDate = due
		updated.LastReview = &now
		return nil
	})
	if err != nil {
		return nil, wrapStore("submit review", err)
	}
	return &updated, nil
}

// ResetHistory deletes a card's reviews and returns it to the new-card
// baseline (n=0, interval=0, immediately due), atomically. Resetting an
// already-reset card is a no-op beyond refreshing the due date.
func (e *Engine) ResetHistory(cardID string) error {
	now := e.now().UnixMilli()
	err := e.db.WithTx(func(tx *store.Tx) error {
		card, err := tx.GetCard(cardID)
		if err != nil {
			return err
		}
		if card == nil {
			return notFound("card", cardID)
		}
		if err := tx.DeleteReviewsByCard(cardID); err != nil {
			return err
		}
		return tx.ResetCard(cardID, now)
	})
	return wrapStore("reset history", err)
}

// ResetDeckHistory resets every card owned directly by the deck (not
// descendants) and deletes their reviews, atomically.
func (e *Engine) ResetDeckHistory(deckID string) error {
	now := e.now().UnixMilli()
	err := e.db.WithTx(func(tx *store.Tx) error {
		deck, err := tx.GetDeck(deckID)
		if err != nil {
			return err
		}
		if deck == nil {
			return notFound("deck", deckID)
		}
		cardIDs, err := tx.ListCardIDsByDeck(deckID)
		if err != nil {
			return err
		}
		if err := tx.DeleteReviewsByCards(cardIDs); err != nil {
			return err
		}
		return tx.ResetCardsByDeck(deckID, now)
	})
	return wrapStore("reset deck history", err)
}

// DueCards returns cards whose due date has passed, scoped to a deck's
// own cards when deckID is non-empty.
func (e *Engine) DueCards(deckID string) ([]store.Card, error) {
	var deckIDs []string
	if deckID != "" {
		deck, err := e.db.GetDeck(deckID)
		if err != nil {
			return nil, wrapStore("due cards", err)
		}
		if deck == nil {
			return nil, notFound("deck", deckID)
		}
		deckIDs = []string{deckID}
	}

	cards, err := e.db.DueCards(deckIDs, e.now().UnixMilli())
	if err != nil {
		return nil, wrapStore("due cards", err)
	}
	return cards, nil
}

// DuplicateCard creates a new card in the same deck with the same front
// and back but fresh scheduling state; the copy does not inherit the
// source card's progress.
func (e *Engine) DuplicateCard(cardID string) (*store.Card, error) {
	card, err := e.db.GetCard(cardID)
	if err != nil {
		return nil, wrapStore("duplicate card", err)
	}
	if card == nil {
		return nil, notFound("card", cardID)
	}

	dup := &store.Card{DeckID: card.DeckID, Front: card.Front, Back: card.Back}
	if err := e.db.InsertCard(dup); err != nil {
		return nil, wrapStore("duplicate card", err)
	}
	return dup, nil
}

package engine

import (
	"strings"

	"github.com/ckuhn/cardbox/internal/store"
)

// CreateCard adds a card to a deck. Front and back may be empty.
func (e *Engine) CreateCard(deckID, front, back string) (*store.Card, error) {
	deck, err := e.db.GetDeck(deckID)
	if err != nil {
		return nil, wrapStore("create card", err)
	}
	if deck == nil {
		return nil, notFound("deck", deckID)
	}

	card := &store.Card{DeckID: deckID, Front: front, Back: back}
	if err := e.db.InsertCard(card); err != nil {
		return nil, wrapStore("create card", err)
	}
	return card, nil
}

// GetCard returns a card by id.
func (e *Engine) GetCard(id string) (*store.Card, error) {
	card, err := e.db.GetCard(id)
	if err != nil {
		return nil, wrapStore("get card", err)
	}
	if card == nil {
		return nil, notFound("card", id)
	}
	return card, nil
}

// UpdateCard replaces a card's front and back text.
func (e *Engine) UpdateCard(id, front, back string) error {
	card, err := e.db.GetCard(id)
	if err != nil {
		return wrapStore("update card", err)
	}
	if card == nil {
		return notFound("card", id)
	}
	return wrapStore("update card", e.db.UpdateCardContent(id, front, back))
}

// MoveCard transfers a card into another deck.
func (e *Engine) MoveCard(id, deckID string) error {
	card, err := e.db.GetCard(id)
	if err != nil {
		return wrapStore("move card", err)
	}
	if card == nil {
		return notFound("card", id)
	}
	deck, err := e.db.GetDeck(deckID)
	if err != nil {
		return wrapStore("move card", err)
	}
	if deck == nil {
		return notFound("deck", deckID)
	}
	return wrapStore("move card", e.db.SetCardDeck(id, deckID))
}

// DeleteCard removes a card and its review history in one transaction.
func (e *Engine) DeleteCard(id string) error {
	err := e.db.WithTx(func(tx *store.Tx) error {
		card, err := tx.GetCard(id)
		if err != nil {
			return err
		}
		if card == nil {
			return notFound("card", id)
		}
		if err := tx.DeleteReviewsByCard(id); err != nil {
			return err
		}
		return tx.DeleteCard(id)
	})
	return wrapStore("delete card", err)
}

// ListCards returns cards scoped to a deck and its whole subtree, or
// every card when deckID is empty. A non-empty filter keeps only cards
// whose front or back contains it, case-insensitively, after the deck
// scoping is applied.
func (e *Engine) ListCards(deckID, filter string) ([]store.Card, error) {
	var cards []store.Card
	var err error

	if deckID == "" {
		cards, err = e.db.ListAllCards()
		if err != nil {
			return nil, wrapStore("list cards", err)
		}
	} else {
		deck, derr := e.db.GetDeck(deckID)
		if derr != nil {
			return nil, wrapStore("list cards", derr)
		}
		if deck == nil {
			return nil, notFound("deck", deckID)
		}

		subtree, serr := e.ListSubtree(deckID)
		if serr != nil {
			return nil, serr
		}
		deckIDs := make([]string, 0, len(subtree)+1)
		deckIDs = append(deckIDs, deckID)
		for _, d := range subtree {
			deckIDs = append(deckIDs, d.ID)
		}

		cards, err = e.db.ListCardsByDecks(deckIDs)
		if err != nil {
			return nil, wrapStore("list cards", err)
		}
	}

	if filter == "" {
		return cards, nil
	}
	needle := strings.ToLower(filter)
	filtered := cards[:0:0]
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Front), needle) ||
			strings.Contains(strings.ToLower(c.Back), needle) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// ListReviews returns the review log scoped by deck and/or card; both
// empty returns everything.
func (e *Engine) ListReviews(deckID, cardID string) ([]store.Review, error) {
	reviews, err := e.db.ListReviews(deckID, cardID)
	if err != nil {
		return nil, wrapStore("list reviews", err)
	}
	return reviews, nil
}

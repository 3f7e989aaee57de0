package engine

import (
	"fmt"
	"strings"

	"github.com/ckuhn/cardbox/internal/store"
)

// CreateDeck creates a deck under parentID, or at the root when
// parentID is empty.
func (e *Engine) CreateDeck(name, parentID string) (*store.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: deck name is empty", ErrValidation)
	}
	if parentID != "" {
		parent, err := e.db.GetDeck(parentID)
		if err != nil {
			return nil, wrapStore("create deck", err)
		}
		if parent == nil {
			return nil, notFound("deck", parentID)
		}
	}

	deck := &store.Deck{Name: name, ParentID: parentID}
	if err := e.db.InsertDeck(deck); err != nil {
		return nil, wrapStore("create deck", err)
	}
	return deck, nil
}

// RenameDeck changes a deck's name.
func (e *Engine) RenameDeck(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: deck name is empty", ErrValidation)
	}
	deck, err := e.db.GetDeck(id)
	if err != nil {
		return wrapStore("rename deck", err)
	}
	if deck == nil {
		return notFound("deck", id)
	}
	return wrapStore("rename deck", e.db.RenameDeck(id, name))
}

// MoveDeck reparents a deck. An empty newParentID moves it to the root.
// The move is rejected with ErrCycle if newParentID is the deck itself
// or any deck in its subtree; the check walks the ancestor chain of the
// target rather than trusting the caller, since nothing downstream
// detects cycles once the forest is corrupted.
func (e *Engine) MoveDeck(id, newParentID string) error {
	deck, err := e.db.GetDeck(id)
	if err != nil {
		return wrapStore("move deck", err)
	}
	if deck == nil {
		return notFound("deck", id)
	}

	if newParentID != "" {
		if newParentID == id {
			return fmt.Errorf("%w: deck %s cannot be its own parent", ErrCycle, id)
		}
		target, err := e.db.GetDeck(newParentID)
		if err != nil {
			return wrapStore("move deck", err)
		}
		if target == nil {
			return notFound("deck", newParentID)
		}

		// Walk from the target up to the root. If the moved deck shows
		// up in that chain, the target lives inside its subtree.
		seen := map[string]bool{target.ID: true}
		for cur := target; cur.ParentID != ""; {
			if cur.ParentID == id {
				return fmt.Errorf("%w: deck %s is a descendant of %s", ErrCycle, newParentID, id)
			}
			if seen[cur.ParentID] {
				return fmt.Errorf("%w: parent chain of deck %s revisits %s", ErrInvariant, newParentID, cur.ParentID)
			}
			seen[cur.ParentID] = true
			next, err := e.db.GetDeck(cur.ParentID)
			if err != nil {
				return wrapStore("move deck", err)
			}
			if next == nil {
				return fmt.Errorf("%w: deck %s has dangling parent %s", ErrInvariant, cur.ID, cur.ParentID)
			}
			cur = next
		}
	}

	return wrapStore("move deck", e.db.SetDeckParent(id, newParentID))
}

// DeleteDeck removes a deck, every deck in its subtree, and all cards
// and reviews owned by any of them, in one transaction.
func (e *Engine) DeleteDeck(id string) error {
	deck, err := e.db.GetDeck(id)
	if err != nil {
		return wrapStore("delete deck", err)
	}
	if deck == nil {
		return notFound("deck", id)
	}

	subtree, err := e.ListSubtree(id)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(subtree)+1)
	ids = append(ids, id)
	for _, d := range subtree {
		ids = append(ids, d.ID)
	}

	err = e.db.WithTx(func(tx *store.Tx) error {
		if err := tx.DeleteReviewsByDecks(ids); err != nil {
			return err
		}
		if err := tx.DeleteCardsByDecks(ids); err != nil {
			return err
		}
		return tx.DeleteDecks(ids)
	})
	return wrapStore("delete deck", err)
}

// GetDeck returns a deck with aggregated card counts.
func (e *Engine) GetDeck(id string) (*store.DeckCounts, error) {
	deck, err := e.db.GetDeckCounts(id)
	if err != nil {
		return nil, wrapStore("get deck", err)
	}
	if deck == nil {
		return nil, notFound("deck", id)
	}
	return deck, nil
}

// ListChildren returns the direct children of parentID (root decks when
// empty), each with per-deck card counts, newest first.
func (e *Engine) ListChildren(parentID string) ([]store.DeckCounts, error) {
	decks, err := e.db.ListDecksByParent(parentID)
	if err != nil {
		return nil, wrapStore("list children", err)
	}
	return decks, nil
}

// ListSubtree returns every deck below rootID, excluding rootID itself.
// An empty rootID enumerates the whole forest. The walk is a worklist
// over parent links, so each deck appears exactly once and traversal
// terminates on any cycle-free forest.
func (e *Engine) ListSubtree(rootID string) ([]store.DeckCounts, error) {
	var result []store.DeckCounts
	stack := []string{rootID}

	for len(stack) > 0 {
		parentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := e.db.ListDecksByParent(parentID)
		if err != nil {
			return nil, wrapStore("list subtree", err)
		}
		result = append(result, children...)
		for _, child := range children {
			stack = append(stack, child.ID)
		}
	}
	return result, nil
}

// PathToRoot returns the ancestor chain of a deck ordered root first,
// ending with the deck itself.
func (e *Engine) PathToRoot(id string) ([]store.Deck, error) {
	deck, err := e.db.GetDeck(id)
	if err != nil {
		return nil, wrapStore("path to root", err)
	}
	if deck == nil {
		return nil, notFound("deck", id)
	}

	var path []store.Deck
	seen := map[string]bool{}
	for cur := deck; ; {
		if seen[cur.ID] {
			return nil, fmt.Errorf("%w: parent chain of deck %s revisits %s", ErrInvariant, id, cur.ID)
		}
		seen[cur.ID] = true
		path = append([]store.Deck{*cur}, path...)

		if cur.ParentID == "" {
			break
		}
		next, err := e.db.GetDeck(cur.ParentID)
		if err != nil {
			return nil, wrapStore("path to root", err)
		}
		if next == nil {
			return nil, fmt.Errorf("%w: deck %s has dangling parent %s", ErrInvariant, cur.ID, cur.ParentID)
		}
		cur = next
	}
	return path, nil
}

// SetDeckLastReviewed records that a review session ran on the deck.
func (e *Engine) SetDeckLastReviewed(id string, at int64) error {
	deck, err := e.db.GetDeck(id)
	if err != nil {
		return wrapStore("set deck last reviewed", err)
	}
	if deck == nil {
		return notFound("deck", id)
	}
	return wrapStore("set deck last reviewed", e.db.SetDeckLastReview(id, at))
}

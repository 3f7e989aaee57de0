// Package engine implements the deck hierarchy and review scheduling
// core: the deck tree with cascading moves and deletes, the fixed
// interval ladder that schedules card reviews, and CRUD over cards.
// Every multi-row mutation runs in a single store transaction.
package engine

import (
	"time"

	"github.com/ckuhn/cardbox/internal/store"
)

// Card status labels, derived from the successful review count.
const (
	StatusNew       = "new"
	StatusLearning  = "learning"
	StatusReviewing = "reviewing"
)

// Review ratings. The rating is recorded with each review but does not
// currently alter the computed interval; only the review count does.
const (
	RatingForgot = "forgot"
	RatingHard   = "hard"
	RatingGood   = "good"
	RatingEasy   = "easy"
)

// Engine exposes the deck tree manager, review scheduler, and card
// registry over a shared store. It holds no mutable state of its own;
// every call re-reads what it needs.
type Engine struct {
	db  *store.DB
	now func() time.Time
}

// New creates an Engine over the given store.
func New(db *store.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

func validRating(rating string) bool {
	switch rating {
	case RatingForgot, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// statusForN labels a card by its successful review count.
func statusForN(n int) string {
	switch {
	case n == 0:
		return StatusNew
	case n < 3:
		return StatusLearning
	default:
		return StatusReviewing
	}
}

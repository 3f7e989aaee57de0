package engine

import (
	"errors"
	"testing"
)

func TestCreateCard(t *testing.T) {
	e := testEngine(t)
	deck := mustDeck(t, e, "Deck", "")

	card, err := e.CreateCard(deck.ID, "front", "back")
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if card.ID == "" {
		t.Error("card id not assigned")
	}
	if card.Status != StatusNew || card.N != 0 || card.Interval != 0 {
		t.Errorf("fresh card = %s/%d/%d, want new/0/0", card.Status, card.N, card.Interval)
	}

	// Empty sides are allowed; partially written cards are normal.
	if _, err := e.CreateCard(deck.ID, "", ""); err != nil {
		t.Errorf("CreateCard with empty sides: %v", err)
	}

	if _, err := e.CreateCard("no-such-deck", "f", "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing deck = %v, want ErrNotFound", err)
	}
}

func TestUpdateCard(t *testing.T) {
	e := testEngine(t)
	deck := mustDeck(t, e, "Deck", "")
	card := mustCard(t, e, deck.ID, "old front", "old back")

	if err := e.UpdateCard(card.ID, "new front", "new back"); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	got, err := e.GetCard(card.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.Front != "new front" || got.Back != "new back" {
		t.Errorf("card = %q/%q, want updated sides", got.Front, got.Back)
	}

	if err := e.UpdateCard("no-such-card", "f", "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing card = %v, want ErrNotFound", err)
	}
}

func TestMoveCard(t *testing.T) {
	e := testEngine(t)
	a := mustDeck(t, e, "A", "")
	b := mustDeck(t, e, "B", "")
	card := mustCard(t, e, a.ID, "front", "back")

	if _, err := e.SubmitReview(card.ID, "good"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	if err := e.MoveCard(card.ID, b.ID); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}

	got, err := e.GetCard(card.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.DeckID != b.ID {
		t.Errorf("deck = %s, want %s", got.DeckID, b.ID)
	}
	// Moving preserves scheduling progress.
	if got.N != 1 {
		t.Errorf("n = %d, want 1", got.N)
	}

	if err := e.MoveCard(card.ID, "no-such-deck"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing deck = %v, want ErrNotFound", err)
	}
	if err := e.MoveCard("no-such-card", b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing card = %v, want ErrNotFound", err)
	}
}

func TestDeleteCard(t *testing.T) {
	e := testEngine(t)
	deck := mustDeck(t, e, "Deck", "")
	card := mustCard(t, e, deck.ID, "front", "back")
	kept := mustCard(t, e, deck.ID, "kept", "card")

	for _, id := range []string{card.ID, kept.ID} {
		if _, err := e.SubmitReview(id, "good"); err != nil {
			t.Fatalf("SubmitReview: %v", err)
		}
	}

	if err := e.DeleteCard(card.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}

	if _, err := e.GetCard(card.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCard after delete = %v, want ErrNotFound", err)
	}
	// The card's reviews go with it; the sibling's stay.
	if got := countRows(t, e, "reviews"); got != 1 {
		t.Errorf("review rows = %d, want 1", got)
	}

	if err := e.DeleteCard(card.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestListCardsSubtree(t *testing.T) {
	e := testEngine(t)
	root := mustDeck(t, e, "Root", "")
	child := mustDeck(t, e, "Child", root.ID)
	grandchild := mustDeck(t, e, "Grandchild", child.ID)
	outside := mustDeck(t, e, "Outside", "")

	mustCard(t, e, root.ID, "in root", "x")
	mustCard(t, e, child.ID, "in child", "x")
	mustCard(t, e, grandchild.ID, "in grandchild", "x")
	mustCard(t, e, outside.ID, "elsewhere", "x")

	// Listing a deck includes every card in its subtree.
	cards, err := e.ListCards(root.ID, "")
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}
	for _, c := range cards {
		if c.Front == "elsewhere" {
			t.Error("listing leaked a card from outside the subtree")
		}
	}

	all, err := e.ListCards("", "")
	if err != nil {
		t.Fatalf("ListCards(all): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all cards = %d, want 4", len(all))
	}

	if _, err := e.ListCards("no-such-deck", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing deck = %v, want ErrNotFound", err)
	}
}

func TestListCardsFilter(t *testing.T) {
	e := testEngine(t)
	deck := mustDeck(t, e, "Deck", "")
	mustCard(t, e, deck.ID, "Photosynthesis", "chlorophyll")
	mustCard(t, e, deck.ID, "Mitosis", "cell division")
	mustCard(t, e, deck.ID, "Osmosis", "SYNTHESIS of nothing")

	tests := []struct {
		filter string
		want   int
	}{
		{"synthesis", 2}, // matches front and back, case-insensitively
		{"MITOSIS", 1},
		{"cell", 1},
		{"osis", 3},
		{"nomatch", 0},
		{"", 3},
	}
	for _, tt := range tests {
		cards, err := e.ListCards(deck.ID, tt.filter)
		if err != nil {
			t.Fatalf("ListCards(%q): %v", tt.filter, err)
		}
		if len(cards) != tt.want {
			t.Errorf("ListCards(%q) = %d cards, want %d", tt.filter, len(cards), tt.want)
		}
	}

	// The filter also applies to the unscoped listing.
	cards, err := e.ListCards("", "mito")
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("unscoped filter = %d cards, want 1", len(cards))
	}
}

func TestListReviewsScoped(t *testing.T) {
	e := testEngine(t)
	a := mustDeck(t, e, "A", "")
	b := mustDeck(t, e, "B", "")
	cardA := mustCard(t, e, a.ID, "a", "a")
	cardB := mustCard(t, e, b.ID, "b", "b")

	if _, err := e.SubmitReview(cardA.ID, "good"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if _, err := e.SubmitReview(cardB.ID, "hard"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	all, err := e.ListReviews("", "")
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all reviews = %d, want 2", len(all))
	}

	byDeck, err := e.ListReviews(a.ID, "")
	if err != nil {
		t.Fatalf("ListReviews(deck): %v", err)
	}
	if len(byDeck) != 1 || byDeck[0].CardID != cardA.ID {
		t.Errorf("deck A reviews = %v, want cardA's only", byDeck)
	}
}

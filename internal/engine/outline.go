package engine

import (
	"github.com/ckuhn/cardbox/internal/store"
)

// OutlineEntry is one row of the flattened deck forest: a deck, its
// depth, and how many direct children it has so a caller can tell
// whether it is expandable.
type OutlineEntry struct {
	store.DeckCounts
	Depth      int
	ChildCount int
}

// BuildOutline flattens the whole forest into pre-order, left-to-right
// rows, descending only into decks whose id is in expanded. Expansion
// state belongs to the caller; the engine does not persist it.
func (e *Engine) BuildOutline(expanded map[string]bool) ([]OutlineEntry, error) {
	all, err := e.ListSubtree("")
	if err != nil {
		return nil, err
	}

	children := make(map[string][]store.DeckCounts, len(all))
	for _, d := range all {
		children[d.ParentID] = append(children[d.ParentID], d)
	}

	type frame struct {
		deck  store.DeckCounts
		depth int
	}

	// Push roots in reverse so the leftmost sibling is popped first.
	roots := children[""]
	stack := make([]frame, 0, len(all))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}

	outline := make([]OutlineEntry, 0, len(all))
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kids := children[cur.deck.ID]
		outline = append(outline, OutlineEntry{
			DeckCounts: cur.deck,
			Depth:      cur.depth,
			ChildCount: len(kids),
		})

		if !expanded[cur.deck.ID] {
			continue
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], cur.depth + 1})
		}
	}
	return outline, nil
}

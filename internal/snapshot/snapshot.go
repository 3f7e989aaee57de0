// Package snapshot exports and imports deck trees as portable JSON
// documents. A snapshot carries deck names, card content, and the
// nesting structure; scheduling progress and review history stay
// behind, so imported cards start as new.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ckuhn/cardbox/internal/engine"
	"github.com/ckuhn/cardbox/internal/store"
)

// FormatVersion is written into every snapshot and checked on import.
const FormatVersion = 1

// File is the top-level snapshot document.
type File struct {
	Version    int    `json:"version"`
	ExportedAt int64  `json:"exported_at"`
	Decks      []Deck `json:"decks"`
}

// Deck is one deck with its own cards and nested children.
type Deck struct {
	Name     string `json:"name"`
	Cards    []Card `json:"cards,omitempty"`
	Children []Deck `json:"children,omitempty"`
}

// Card is the portable card content.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Stats reports what an import created.
type Stats struct {
	Decks int
	Cards int
}

// Export builds a snapshot of one deck's subtree, or of the whole
// forest when deckID is empty.
func Export(db *store.DB, deckID string, now int64) (*File, error) {
	f := &File{Version: FormatVersion, ExportedAt: now}

	if deckID == "" {
		roots, err := db.ListDecksByParent("")
		if err != nil {
			return nil, fmt.Errorf("list root decks: %w", err)
		}
		for _, root := range roots {
			d, err := exportDeck(db, root.ID, root.Name)
			if err != nil {
				return nil, err
			}
			f.Decks = append(f.Decks, d)
		}
		return f, nil
	}

	deck, err := db.GetDeck(deckID)
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	if deck == nil {
		return nil, fmt.Errorf("%w: deck %s", engine.ErrNotFound, deckID)
	}
	d, err := exportDeck(db, deck.ID, deck.Name)
	if err != nil {
		return nil, err
	}
	f.Decks = append(f.Decks, d)
	return f, nil
}

func exportDeck(db *store.DB, id, name string) (Deck, error) {
	d := Deck{Name: name}

	cards, err := db.ListCardsByDecks([]string{id})
	if err != nil {
		return d, fmt.Errorf("list cards of %s: %w", id, err)
	}
	for _, c := range cards {
		d.Cards = append(d.Cards, Card{Front: c.Front, Back: c.Back})
	}

	children, err := db.ListDecksByParent(id)
	if err != nil {
		return d, fmt.Errorf("list children of %s: %w", id, err)
	}
	for _, child := range children {
		sub, err := exportDeck(db, child.ID, child.Name)
		if err != nil {
			return d, err
		}
		d.Children = append(d.Children, sub)
	}
	return d, nil
}

// Write encodes a snapshot as indented JSON.
func (f *File) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Read decodes and validates a snapshot document.
func Read(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: malformed snapshot: %v", engine.ErrValidation, err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", engine.ErrValidation, f.Version)
	}
	return &f, nil
}

// Import recreates a snapshot's decks and cards under parentID (empty
// for top level). Every deck and card gets a fresh id; names are not
// deduplicated against existing decks.
func Import(eng *engine.Engine, f *File, parentID string) (Stats, error) {
	var stats Stats
	for _, d := range f.Decks {
		if err := importDeck(eng, d, parentID, &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func importDeck(eng *engine.Engine, d Deck, parentID string, stats *Stats) error {
	deck, err := eng.CreateDeck(d.Name, parentID)
	if err != nil {
		return fmt.Errorf("import deck %q: %w", d.Name, err)
	}
	stats.Decks++

	for _, c := range d.Cards {
		if _, err := eng.CreateCard(deck.ID, c.Front, c.Back); err != nil {
			return fmt.Errorf("import card into %q: %w", d.Name, err)
		}
		stats.Cards++
	}

	for _, child := range d.Children {
		if err := importDeck(eng, child, deck.ID, stats); err != nil {
			return err
		}
	}
	return nil
}

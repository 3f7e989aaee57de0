package snapshot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ckuhn/cardbox/internal/engine"
	"github.com/ckuhn/cardbox/internal/store"
)

func testSetup(t *testing.T) (*store.DB, *engine.Engine) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, engine.New(db)
}

func TestExportImportRoundTrip(t *testing.T) {
	db, eng := testSetup(t)

	root, err := eng.CreateDeck("Biology", "")
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	child, err := eng.CreateDeck("Cells", root.ID)
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	if _, err := eng.CreateCard(root.ID, "What is life?", "good question"); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if _, err := eng.CreateCard(child.ID, "Mitosis?", "cell division"); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	f, err := Export(db, root.ID, 12345)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if f.Version != FormatVersion || f.ExportedAt != 12345 {
		t.Errorf("header = v%d at %d, want v%d at 12345", f.Version, f.ExportedAt, FormatVersion)
	}
	if len(f.Decks) != 1 || f.Decks[0].Name != "Biology" {
		t.Fatalf("decks = %v, want single Biology root", f.Decks)
	}
	if len(f.Decks[0].Children) != 1 || f.Decks[0].Children[0].Name != "Cells" {
		t.Fatalf("children = %v, want Cells", f.Decks[0].Children)
	}

	// Serialize, parse back, import into a fresh database.
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	parsed, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	db2, eng2 := testSetup(t)
	stats, err := Import(eng2, parsed, "")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Decks != 2 || stats.Cards != 2 {
		t.Errorf("stats = %+v, want 2 decks 2 cards", stats)
	}

	roots, err := db2.ListDecksByParent("")
	if err != nil {
		t.Fatalf("ListDecksByParent: %v", err)
	}
	if len(roots) != 1 || roots[0].Name != "Biology" {
		t.Fatalf("imported roots = %v, want Biology", roots)
	}

	// Imported cards carry content but no scheduling progress.
	cards, err := eng2.ListCards(roots[0].ID, "")
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("imported cards = %d, want 2", len(cards))
	}
	for _, c := range cards {
		if c.N != 0 || c.Status != engine.StatusNew {
			t.Errorf("card %q imported with progress: n %d status %s", c.Front, c.N, c.Status)
		}
	}
}

func TestExportWholeForest(t *testing.T) {
	db, eng := testSetup(t)

	for _, name := range []string{"A", "B"} {
		if _, err := eng.CreateDeck(name, ""); err != nil {
			t.Fatalf("CreateDeck(%s): %v", name, err)
		}
	}

	f, err := Export(db, "", 0)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(f.Decks) != 2 {
		t.Errorf("roots = %d, want 2", len(f.Decks))
	}
}

func TestExportUnknownDeck(t *testing.T) {
	db, _ := testSetup(t)

	if _, err := Export(db, "no-such-deck", 0); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("Export = %v, want ErrNotFound", err)
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	if _, err := Read(strings.NewReader("not json")); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("malformed = %v, want ErrValidation", err)
	}
	if _, err := Read(strings.NewReader(`{"version":99,"decks":[]}`)); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("bad version = %v, want ErrValidation", err)
	}
}

func TestImportUnderParent(t *testing.T) {
	_, eng := testSetup(t)

	parent, err := eng.CreateDeck("Existing", "")
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}

	f := &File{Version: FormatVersion, Decks: []Deck{{Name: "Imported"}}}
	if _, err := Import(eng, f, parent.ID); err != nil {
		t.Fatalf("Import: %v", err)
	}

	children, err := eng.ListChildren(parent.ID)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(children) != 1 || children[0].Name != "Imported" {
		t.Errorf("children = %v, want Imported", children)
	}

	// An unknown parent surfaces as not found.
	if _, err := Import(eng, f, "no-such-deck"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("Import = %v, want ErrNotFound", err)
	}
}

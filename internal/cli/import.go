package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ckuhn/cardbox/internal/engine"
	"github.com/ckuhn/cardbox/internal/snapshot"
)

var importParentID string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import decks and cards from a JSON snapshot",
	Long:  "Import a snapshot produced by 'cardbox export'. Imported decks get fresh ids and imported cards start unscheduled.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importParentID, "parent", "", "import under this deck instead of the top level")
}

func runImport(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer in.Close()

	f, err := snapshot.Read(in)
	if err != nil {
		return err
	}

	db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := snapshot.Import(engine.New(db), f, importParentID)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d deck(s), %d card(s)\n", stats.Decks, stats.Cards)
	return nil
}

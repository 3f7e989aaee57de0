package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ckuhn/cardbox/internal/engine"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the deck tree with card counts",
	RunE:  runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	eng := engine.New(db)

	// Expand everything for the CLI view.
	all, err := eng.ListSubtree("")
	if err != nil {
		return err
	}
	expanded := make(map[string]bool, len(all))
	for _, d := range all {
		expanded[d.ID] = true
	}

	outline, err := eng.BuildOutline(expanded)
	if err != nil {
		return err
	}
	if len(outline) == 0 {
		fmt.Println("no decks")
		return nil
	}

	for _, entry := range outline {
		indent := strings.Repeat("  ", entry.Depth)
		fmt.Printf("%s%s  (%d cards: %d new, %d learning, %d reviewing)\n",
			indent, entry.Name, entry.CardCount, entry.New, entry.Learning, entry.Reviewing)
	}
	return nil
}

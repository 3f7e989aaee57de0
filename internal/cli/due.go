package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ckuhn/cardbox/internal/engine"
)

var dueDeckID string

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List cards that are due for review",
	RunE:  runDue,
}

func init() {
	dueCmd.Flags().StringVar(&dueDeckID, "deck", "", "restrict to one deck's own cards")
}

func runDue(cmd *cobra.Command, args []string) error {
	db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	eng := engine.New(db)
	cards, err := eng.DueCards(dueDeckID)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println("nothing due")
		return nil
	}

	for _, c := range cards {
		due := time.UnixMilli(c.DueDate).Format("2006-01-02 15:04")
		fmt.Printf("%s  [%s, n=%d, due %s] %s\n", c.ID, c.Status, c.N, due, c.Front)
	}
	fmt.Printf("%d card(s) due\n", len(cards))
	return nil
}

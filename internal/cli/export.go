package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ckuhn/cardbox/internal/snapshot"
)

var (
	exportDeckID string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export decks and cards as JSON",
	Long:  "Export one deck's subtree (or the whole collection) as a portable JSON snapshot. Scheduling progress and review history are not included.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDeckID, "deck", "", "export only this deck's subtree")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := snapshot.Export(db, exportDeckID, time.Now().UnixMilli())
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		out, err = os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer out.Close()
	}

	if err := f.Write(out); err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "exported %d deck(s) to %s\n", len(f.Decks), exportOut)
	}
	return nil
}

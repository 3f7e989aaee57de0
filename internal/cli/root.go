package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "cardbox",
	Short: "Nested flashcard decks with spaced review",
	Long:  "Cardbox organizes flashcards into a tree of decks and schedules reviews on a fixed interval ladder. Single Go binary, local SQLite storage.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

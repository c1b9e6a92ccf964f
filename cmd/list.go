package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored seasons",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	seasons, err := db.ListSeasons()
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	if len(seasons) == 0 {
		fmt.Fprintln(os.Stdout, "No seasons stored yet. Run 'nbaefg fetch <season>' then 'nbaefg ingest <season>'.")
		return nil
	}
	report.PrintSeasons(os.Stdout, seasons)
	return nil
}

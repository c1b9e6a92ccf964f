package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/model"
)

var dropForce bool

// dropCmd deletes the shot database, or a single season from it.
var dropCmd = &cobra.Command{
	Use:   "drop [season]",
	Short: "Delete the shot database or one stored season",
	Long: `Without arguments, permanently delete the SQLite shot database. With a season,
remove only that season's shots. Raw downloads and processed CSVs are kept, so
'nbaefg ingest' rebuilds what was dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropSeason(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}

func dropSeason(arg string) error {
	season, err := model.ParseSeason(arg)
	if err != nil {
		return err
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete season %s from %s\n", season.Label(), cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := db.DeleteSeason(season)
	if err != nil {
		return fmt.Errorf("drop season: %w", err)
	}
	if !removed {
		fmt.Fprintf(os.Stdout, "Season %s is not stored, nothing to drop.\n", season.Label())
		return nil
	}
	fmt.Fprintf(os.Stdout, "Dropped season %s\n", season.Label())
	return nil
}

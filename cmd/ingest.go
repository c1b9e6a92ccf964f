package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <season> [<season>...]",
	Short: "Join score context onto a season's shots and store the result",
	Long: `Reads the raw play-by-play and shot-detail CSVs of each season from the data
directory, derives the per-second score differential of every game, attaches
it to each shot, writes shot_detail_pbp_<season>.csv to the output directory
and stores the rows in the database.

Games whose play-by-play cannot be processed are logged and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "re-process seasons already stored")
}

func runIngest(cmd *cobra.Command, args []string) error {
	seasons, err := parseSeasons(args)
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, season := range seasons {
		exists, err := db.SeasonExists(season)
		if err != nil {
			return fmt.Errorf("check season: %w", err)
		}
		if exists && !ingestForce {
			fmt.Fprintf(os.Stdout, "Season %s already stored, use --force to re-process.\n", season.Label())
			continue
		}

		fmt.Fprintf(os.Stdout, "Processing %s...\n", season.Label())
		res, err := processSeason(cmd.Context(), db, season)
		if err != nil {
			return fmt.Errorf("season %s: %w", season.Label(), err)
		}
		fmt.Fprintf(os.Stdout, "  games: %d  failed: %d  shots: %d  unmatched: %d\n",
			res.Games, len(res.Failed), len(res.Shots), res.UnmatchedShots)
		fmt.Fprintf(os.Stdout, "  wrote %s\n", processedPath(season))
	}
	return nil
}

package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/report"
)

var sqlFormat string

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the shot database",
	Long: `Run an arbitrary SQL query against the shot database and print results as a table.

Schema overview:
  seasons(season, ingested_at, games, failed_games, unmatched_shots)
  shots(season, row_no, game_id TEXT, game_date, player_id TEXT, player_name, team_name,
    period, minutes_remaining, seconds_remaining, time_elapsed, abs_score_diff,
    shot_attempted_flag, shot_made_flag, three_pt_attempted)

season is the ending year of the season (2022 for 2021-22). abs_score_diff is
NULL when no score was known yet at the time of the shot.

Example:
  nbaefg sql "SELECT team_name, SUM(shot_made_flag) FROM shots WHERE season = 2022 GROUP BY 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().StringVar(&sqlFormat, "format", "table", "output format: table or csv")
}

func runSQL(cmd *cobra.Command, args []string) error {
	if sqlFormat != "table" && sqlFormat != "csv" {
		return fmt.Errorf("unknown format %q: use table or csv", sqlFormat)
	}
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if sqlFormat == "csv" {
		cw := csv.NewWriter(os.Stdout)
		cw.Write(cols)
		cw.WriteAll(rows)
		return cw.Error()
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

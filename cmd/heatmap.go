package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/aggregator"
	"github.com/pable/go-nba-efg/internal/model"
	"github.com/pable/go-nba-efg/internal/report"
)

var (
	heatmapPlayer  string
	heatmapTeam    string
	heatmapCSV     string
	heatmapSVG     string
	heatmapBuckets bool
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <season>",
	Short: "eFG% by minutes remaining and absolute score difference",
	Long: `Aggregates a stored season into 4-minute by score-differential buckets and
prints the eFG% grid with FGM/FGA annotations. --player takes precedence over
--team. Buckets without attempts are left blank.

Example:
  nbaefg heatmap 2022 --player "LeBron James" --svg lebron.svg
  nbaefg heatmap 2021-22 --team "Boston Celtics" --buckets`,
	Args: cobra.ExactArgs(1),
	RunE: runHeatmap,
}

func init() {
	heatmapCmd.Flags().StringVar(&heatmapPlayer, "player", "", "only this player's shots")
	heatmapCmd.Flags().StringVar(&heatmapTeam, "team", "", "only this team's shots")
	heatmapCmd.Flags().StringVar(&heatmapCSV, "csv", "", "read a processed season CSV instead of the database")
	heatmapCmd.Flags().StringVar(&heatmapSVG, "svg", "", "also write the heatmap as SVG to this path")
	heatmapCmd.Flags().BoolVar(&heatmapBuckets, "buckets", false, "also print the flat bucket table")
}

func runHeatmap(_ *cobra.Command, args []string) error {
	season, err := model.ParseSeason(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	shots, err := loadShots(db, season, heatmapCSV)
	if err != nil {
		return err
	}
	sel := aggregator.SelectorFor(heatmapPlayer, heatmapTeam)
	return renderHeatmap(season, sel, shots, heatmapBuckets, heatmapSVG)
}

func renderHeatmap(season model.Season, sel aggregator.Selector, shots []model.JoinedShot, flat bool, svgPath string) error {
	selected := 0
	for _, s := range shots {
		if sel.Match(s) {
			selected++
		}
	}
	if selected == 0 && sel.Kind != aggregator.SelectAll {
		logger.Warn().Str("season", season.Label()).Str("selection", sel.Name).Msg("no shots match selection")
	}

	buckets := aggregator.Aggregate(shots, sel)
	pivot := aggregator.PivotBuckets(buckets)

	report.PrintTitle(os.Stdout, season, sel, selected)
	report.PrintEFGPivot(os.Stdout, pivot)
	fmt.Fprintln(os.Stdout)
	report.PrintFractionPivot(os.Stdout, pivot)
	if flat {
		fmt.Fprintln(os.Stdout)
		report.PrintBucketTable(os.Stdout, buckets)
	}

	if svgPath == "" {
		return nil
	}
	f, err := os.Create(svgPath)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if err := report.WriteHeatmapSVG(f, pivot, report.Title(season, sel)); err != nil {
		f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nwrote %s\n", svgPath)
	return nil
}

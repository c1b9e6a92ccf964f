package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/aggregator"
	"github.com/pable/go-nba-efg/internal/model"
)

var (
	exportPlayer string
	exportTeam   string
	exportFormat string
	exportOut    string
	exportCSV    string
)

// bucketExport is the JSON document written by export.
type bucketExport struct {
	Season    string                   `json:"season"`
	Selection string                   `json:"selection,omitempty"`
	Shots     int                      `json:"shots"`
	Buckets   []model.AggregatedBucket `json:"buckets"`
}

var exportCmd = &cobra.Command{
	Use:   "export <season>",
	Short: "Export the aggregated bucket table as JSON or CSV",
	Long: `Writes the (time_bucket, score_diff_bucket) table with FGA, FGM, 3PA, 3PM and
EFG columns. An undefined EFG is null in JSON and an empty cell in CSV.

Example:
  nbaefg export 2022 --team "Denver Nuggets" --format csv --out nuggets.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportPlayer, "player", "", "only this player's shots")
	exportCmd.Flags().StringVar(&exportTeam, "team", "", "only this team's shots")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportCSV, "csv", "", "read a processed season CSV instead of the database")
}

func runExport(_ *cobra.Command, args []string) error {
	season, err := model.ParseSeason(args[0])
	if err != nil {
		return err
	}
	if exportFormat != "json" && exportFormat != "csv" {
		return fmt.Errorf("unknown format %q: use json or csv", exportFormat)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	shots, err := loadShots(db, season, exportCSV)
	if err != nil {
		return err
	}
	sel := aggregator.SelectorFor(exportPlayer, exportTeam)
	write := func(w io.Writer) error {
		return exportBuckets(w, exportFormat, season, sel, shots)
	}
	if exportOut == "" {
		return write(os.Stdout)
	}
	return writeFileWith(exportOut, write)
}

// writeFileWith creates path, runs write on it and reports the first of the
// write and close errors.
func writeFileWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// exportBuckets aggregates the selection and writes it as json or csv.
func exportBuckets(w io.Writer, format string, season model.Season, sel aggregator.Selector, shots []model.JoinedShot) error {
	buckets := aggregator.Aggregate(shots, sel)
	if format == "csv" {
		return writeBucketsCSV(w, buckets)
	}
	selected := 0
	for _, s := range shots {
		if sel.Match(s) {
			selected++
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bucketExport{
		Season:    season.Label(),
		Selection: sel.Subject(),
		Shots:     selected,
		Buckets:   buckets,
	})
}

func writeBucketsCSV(w io.Writer, buckets []model.AggregatedBucket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_bucket", "score_diff_bucket", "FGA", "FGM", "3PA", "3PM", "EFG"}); err != nil {
		return err
	}
	for _, b := range buckets {
		err := cw.Write([]string{
			b.TimeBucket, b.ScoreDiffBucket,
			strconv.Itoa(b.FGA), strconv.Itoa(b.FGM),
			strconv.Itoa(b.ThreePA), strconv.Itoa(b.ThreePM),
			b.EFGString(),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

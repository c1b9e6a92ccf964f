package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/fetch"
)

var fetchKinds string

// fetchCmd downloads raw season archives into the data directory.
var fetchCmd = &cobra.Command{
	Use:   "fetch <season> [<season>...]",
	Short: "Download raw play-by-play and shot-detail CSVs for seasons",
	Long: `Downloads the season archives listed in the nba_data index and extracts
their CSV files into the data directory. Seasons are given by trailing year
(2022) or as a range (2021-22).

Example:
  nbaefg fetch 2021 2022
  nbaefg fetch 2022 --kinds shotdetail`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchKinds, "kinds", fetch.KindPlayByPlay+","+fetch.KindShotDetail,
		"comma-separated dataset kinds to download")
}

func runFetch(cmd *cobra.Command, args []string) error {
	seasons, err := parseSeasons(args)
	if err != nil {
		return err
	}
	var want []string
	for _, k := range strings.Split(fetchKinds, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		for _, s := range seasons {
			want = append(want, fetch.ArchiveName(k, s))
		}
	}

	client := fetch.NewClient(cfg.IndexURL, cfg.HTTPTimeout,
		fetch.WithRetries(cfg.MaxRetries),
		fetch.WithLogger(logger),
	)
	ctx := cmd.Context()
	index, err := client.Index(ctx)
	if err != nil {
		return err
	}
	entries := fetch.Select(index, want)
	if len(entries) == 0 {
		return fmt.Errorf("none of %s found in index", strings.Join(want, ", "))
	}
	if len(entries) < len(want) {
		found := make(map[string]bool, len(entries))
		for _, e := range entries {
			found[e.Name] = true
		}
		for _, w := range want {
			if !found[w] {
				logger.Warn().Str("archive", w).Msg("not in index")
			}
		}
	}

	for i, e := range entries {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", i+1, len(entries), e.Name)
		path, err := client.Download(ctx, e, cfg.DataDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  saved %s\n", path)
	}
	return nil
}

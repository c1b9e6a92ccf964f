package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-nba-efg/internal/aggregator"
	"github.com/pable/go-nba-efg/internal/model"
	"github.com/pable/go-nba-efg/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// Title is the heatmap heading for a season and selection.
func Title(season model.Season, sel aggregator.Selector) string {
	t := "eFG% by Time Remaining and Abs. Score Diff in " + season.Label()
	if s := sel.Subject(); s != "" {
		return s + ": " + t
	}
	return t
}

// PrintTitle prints the heading line.
func PrintTitle(w io.Writer, season model.Season, sel aggregator.Selector, shots int) {
	fmt.Fprintf(w, "\n%s  |  shots: %d\n\n", Title(season, sel), shots)
}

// PrintBucketTable prints the aggregated bucket table. Undefined eFG renders
// as an empty cell.
func PrintBucketTable(w io.Writer, buckets []model.AggregatedBucket) {
	table := newTable(w)
	table.Header("TIME_BUCKET", "SCORE_DIFF_BUCKET", "FGA", "FGM", "3PA", "3PM", "EFG")
	for _, b := range buckets {
		table.Append(
			b.TimeBucket,
			b.ScoreDiffBucket,
			strconv.Itoa(b.FGA),
			strconv.Itoa(b.FGM),
			strconv.Itoa(b.ThreePA),
			strconv.Itoa(b.ThreePM),
			b.EFGString(),
		)
	}
	table.Render()
}

func pivotHeader(p aggregator.Pivot) []any {
	h := make([]any, 0, len(p.Cols)+1)
	h = append(h, "DIFF \\ MIN")
	for _, c := range p.Cols {
		h = append(h, c)
	}
	return h
}

// PrintEFGPivot prints the eFG% grid, score-diff rows against minutes
// remaining columns.
func PrintEFGPivot(w io.Writer, p aggregator.Pivot) {
	table := newTable(w)
	table.Header(pivotHeader(p)...)
	for r, label := range p.Rows {
		row := make([]any, 0, len(p.Cols)+1)
		row = append(row, label)
		for _, v := range p.EFG[r] {
			if v == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", *v))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintFractionPivot prints the FGM/FGA annotation grid.
func PrintFractionPivot(w io.Writer, p aggregator.Pivot) {
	table := newTable(w)
	table.Header(pivotHeader(p)...)
	for r, label := range p.Rows {
		row := make([]any, 0, len(p.Cols)+1)
		row = append(row, label)
		for _, v := range p.Fraction[r] {
			row = append(row, v)
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintGameShots prints one game's shots with their context.
func PrintGameShots(w io.Writer, shots []model.JoinedShot) {
	table := newTable(w)
	table.Header("PERIOD", "CLOCK", "ELAPSED", "DIFF", "PLAYER", "TEAM", "3PA", "MADE")
	for _, s := range shots {
		diff := ""
		if s.ScoreKnown {
			diff = strconv.Itoa(s.AbsScoreDiff)
		}
		made := ""
		if s.ShotMade == 1 {
			made = "✓"
		}
		table.Append(
			strconv.Itoa(s.Period),
			fmt.Sprintf("%d:%02d", s.MinutesRemaining, s.SecondsRemaining),
			strconv.Itoa(s.TimeElapsed),
			diff,
			s.PlayerName,
			s.TeamName,
			strconv.Itoa(s.ThreePtAttempted),
			made,
		)
	}
	table.Render()
}

// PrintSeasons prints the ingested seasons.
func PrintSeasons(w io.Writer, seasons []storage.SeasonSummary) {
	table := newTable(w)
	table.Header("SEASON", "GAMES", "FAILED", "SHOTS", "UNMATCHED", "INGESTED")
	for _, s := range seasons {
		table.Append(
			s.Season.Label(),
			strconv.Itoa(s.Games),
			strconv.Itoa(s.FailedGames),
			strconv.Itoa(s.Shots),
			strconv.Itoa(s.UnmatchedShots),
			s.IngestedAt,
		)
	}
	table.Render()
}

// PrintQueryResult prints raw query rows under their column names.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}

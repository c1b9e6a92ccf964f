package aggregator

import (
	"fmt"

	"github.com/pable/go-nba-efg/internal/model"
)

// Pivot lays the buckets out as a heatmap grid: rows are score-diff buckets
// from "21+" down to "0-5", columns are time buckets from "48-45" to "4-0".
type Pivot struct {
	Rows []string
	Cols []string
	// EFG holds eFG% rounded to 2 decimals; nil cells have no attempts.
	EFG [][]*float64
	// Fraction holds "FGM/FGA" annotations.
	Fraction [][]string
}

// PivotBuckets builds the heatmap grid from Aggregate output.
func PivotBuckets(buckets []model.AggregatedBucket) Pivot {
	scoreLabels := ScoreDiffLabels()
	rows := make([]string, len(scoreLabels))
	for i, l := range scoreLabels {
		rows[len(scoreLabels)-1-i] = l
	}
	cols := TimeLabels()

	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)

	p := Pivot{
		Rows:     rows,
		Cols:     cols,
		EFG:      make([][]*float64, len(rows)),
		Fraction: make([][]string, len(rows)),
	}
	for r := range rows {
		p.EFG[r] = make([]*float64, len(cols))
		p.Fraction[r] = make([]string, len(cols))
		for c := range cols {
			p.Fraction[r][c] = "0/0"
		}
	}

	for _, b := range buckets {
		r, ok := rowIdx[b.ScoreDiffBucket]
		if !ok {
			continue
		}
		c, ok := colIdx[b.TimeBucket]
		if !ok {
			continue
		}
		if b.EFG != nil {
			v := roundTo(*b.EFG, 2)
			p.EFG[r][c] = &v
		}
		p.Fraction[r][c] = fmt.Sprintf("%d/%d", b.FGM, b.FGA)
	}
	return p
}

func indexOf(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

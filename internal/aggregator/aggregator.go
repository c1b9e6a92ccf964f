// Package aggregator buckets joined shots by minutes remaining and absolute
// score differential and computes effective field-goal percentage per bucket.
package aggregator

import (
	"math"

	"github.com/pable/go-nba-efg/internal/model"
)

// bound is an inclusive upper edge of a bucket and its label.
type bound struct {
	upper int
	label string
}

// scoreDiffBounds cover [0,5], [6,10], [11,15], [16,20], [21,inf).
var scoreDiffBounds = []bound{
	{5, "0-5"},
	{10, "6-10"},
	{15, "11-15"},
	{20, "16-20"},
	{math.MaxInt, "21+"},
}

// timeBounds cover regulation-equivalent minutes remaining in 4-minute
// windows: [0,4], [5,8], ..., [45,48].
var timeBounds = []bound{
	{4, "4-0"},
	{8, "8-5"},
	{12, "12-9"},
	{16, "16-13"},
	{20, "20-17"},
	{24, "24-21"},
	{28, "28-25"},
	{32, "32-29"},
	{36, "36-33"},
	{40, "40-37"},
	{44, "44-41"},
	{48, "48-45"},
}

func lookup(bounds []bound, v int) (int, bool) {
	if v < 0 {
		return 0, false
	}
	for i, b := range bounds {
		if v <= b.upper {
			return i, true
		}
	}
	return 0, false
}

// ScoreDiffBucket returns the label of the score-differential bucket holding
// diff, or false for a negative diff.
func ScoreDiffBucket(diff int) (string, bool) {
	i, ok := lookup(scoreDiffBounds, diff)
	if !ok {
		return "", false
	}
	return scoreDiffBounds[i].label, true
}

// TimeBucket returns the label of the minutes-remaining bucket holding
// rawMinutes, or false outside [0, 48].
func TimeBucket(rawMinutes int) (string, bool) {
	i, ok := lookup(timeBounds, rawMinutes)
	if !ok {
		return "", false
	}
	return timeBounds[i].label, true
}

// RawMinutesRemaining places a shot on a single 48..0 scale. Overtime periods
// count as the 4th period.
func RawMinutesRemaining(period, minutesRemaining int) int {
	if period > model.RegulationPeriods {
		period = model.RegulationPeriods
	}
	return minutesRemaining + (model.RegulationPeriods-period)*12
}

// TimeLabels returns time bucket labels from the start of the game ("48-45")
// to the end ("4-0").
func TimeLabels() []string {
	out := make([]string, len(timeBounds))
	for i, b := range timeBounds {
		out[len(timeBounds)-1-i] = b.label
	}
	return out
}

// ScoreDiffLabels returns score-differential bucket labels, smallest first.
func ScoreDiffLabels() []string {
	out := make([]string, len(scoreDiffBounds))
	for i, b := range scoreDiffBounds {
		out[i] = b.label
	}
	return out
}

type cell struct {
	fga, fgm, tpa, tpm int
}

// Aggregate sums the shots passing sel into every (time, score-diff) bucket
// and computes eFG% = (FGM + 0.5*3PM) / FGA rounded to 3 decimals.
//
// All 60 buckets are returned, time buckets from "48-45" to "4-0" and score
// buckets smallest first within each. A bucket without attempts has a nil
// EFG. Shots with an unknown differential or outside the 48-minute scale are
// not counted.
func Aggregate(shots []model.JoinedShot, sel Selector) []model.AggregatedBucket {
	grid := make([][]cell, len(timeBounds))
	for i := range grid {
		grid[i] = make([]cell, len(scoreDiffBounds))
	}

	for _, s := range shots {
		if !s.ScoreKnown || !sel.Match(s) {
			continue
		}
		ti, ok := lookup(timeBounds, RawMinutesRemaining(s.Period, s.MinutesRemaining))
		if !ok {
			continue
		}
		si, ok := lookup(scoreDiffBounds, s.AbsScoreDiff)
		if !ok {
			continue
		}
		c := &grid[ti][si]
		c.fga += s.ShotAttempted
		c.fgm += s.ShotMade
		c.tpa += s.ThreePtAttempted
		if s.ThreePtAttempted == 1 {
			c.tpm += s.ShotMade
		}
	}

	out := make([]model.AggregatedBucket, 0, len(timeBounds)*len(scoreDiffBounds))
	for ti := len(timeBounds) - 1; ti >= 0; ti-- {
		for si, sb := range scoreDiffBounds {
			c := grid[ti][si]
			out = append(out, model.AggregatedBucket{
				TimeBucket:      timeBounds[ti].label,
				ScoreDiffBucket: sb.label,
				FGA:             c.fga,
				FGM:             c.fgm,
				ThreePA:         c.tpa,
				ThreePM:         c.tpm,
				EFG:             EffectiveFGPct(c.fgm, c.tpm, c.fga),
			})
		}
	}
	return out
}

// EffectiveFGPct returns (fgm + 0.5*tpm) / fga rounded to 3 decimals, or nil
// when fga is zero.
func EffectiveFGPct(fgm, tpm, fga int) *float64 {
	if fga == 0 {
		return nil
	}
	v := roundTo((float64(fgm)+0.5*float64(tpm))/float64(fga), 3)
	return &v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

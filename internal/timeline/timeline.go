// Package timeline builds the dense per-second absolute score differential
// of a single game.
package timeline

import (
	"fmt"

	"github.com/pable/go-nba-efg/internal/clock"
	"github.com/pable/go-nba-efg/internal/model"
)

// Build returns one sample per second in [0, max_game_seconds] for gameID.
// Events belonging to other games are ignored.
//
// Observed differentials are placed on the grid by time elapsed. Second 0 is
// always 0. Gaps take the value of the next observation (a differential holds
// until the next recorded event); seconds after the last observation take
// the last one. Two events landing on the same second (end of one period,
// start of the next) keep the larger differential.
func Build(gameID string, events []model.NormalizedClockEvent) ([]model.ScoreDiffSample, error) {
	maxPeriod := 0
	n := 0
	for _, e := range events {
		if e.GameID != gameID {
			continue
		}
		n++
		if e.Period > maxPeriod {
			maxPeriod = e.Period
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("game %s: %w", gameID, model.ErrEmptyTimeline)
	}

	maxSeconds := clock.MaxGameSeconds(maxPeriod)
	diffs := make([]int, maxSeconds+1)
	known := make([]bool, maxSeconds+1)

	for _, e := range events {
		if e.GameID != gameID {
			continue
		}
		t := clock.TimeElapsed(e.Period, e.MinutesRemaining, e.SecondsRemaining)
		if t < 0 || t > maxSeconds {
			continue
		}
		if !known[t] || e.AbsScoreDiff > diffs[t] {
			diffs[t] = e.AbsScoreDiff
			known[t] = true
		}
	}
	diffs[0], known[0] = 0, true

	backfill(diffs, known)
	forwardFill(diffs, known)

	out := make([]model.ScoreDiffSample, len(diffs))
	for t, d := range diffs {
		out[t] = model.ScoreDiffSample{GameID: gameID, TimeElapsed: t, AbsScoreDiff: d}
	}
	return out, nil
}

// backfill copies each known value into the unknown run preceding it.
func backfill(vals []int, known []bool) {
	have := false
	next := 0
	for i := len(vals) - 1; i >= 0; i-- {
		switch {
		case known[i]:
			have, next = true, vals[i]
		case have:
			vals[i], known[i] = next, true
		}
	}
}

// forwardFill copies each known value into the unknown run following it.
func forwardFill(vals []int, known []bool) {
	have := false
	prev := 0
	for i := range vals {
		switch {
		case known[i]:
			have, prev = true, vals[i]
		case have:
			vals[i], known[i] = prev, true
		}
	}
}

// Package clock converts play-by-play game-clock fields into a single
// "seconds since tip-off" coordinate.
package clock

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-nba-efg/internal/model"
)

// ParseClock splits an "mm:ss" clock string into its minute and second
// components. Minutes and seconds may each have one or two digits.
func ParseClock(s string) (minutes, seconds int, err error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || mm == "" || len(mm) > 2 || ss == "" || len(ss) > 2 {
		return 0, 0, fmt.Errorf("%w: %q", model.ErrMalformedClock, s)
	}
	minutes, err = strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("%w: %q", model.ErrMalformedClock, s)
	}
	seconds, err = strconv.Atoi(ss)
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, 0, fmt.Errorf("%w: %q", model.ErrMalformedClock, s)
	}
	return minutes, seconds, nil
}

// TimeElapsed returns seconds since the start of the game for a clock
// reading in the given period. Periods after the 4th are 5-minute overtimes.
func TimeElapsed(period, minutesRemaining, secondsRemaining int) int {
	if period <= model.RegulationPeriods {
		return (period-1)*model.RegulationPeriodSeconds + model.RegulationPeriodSeconds -
			secondsRemaining - minutesRemaining*60
	}
	return model.RegulationSeconds + (period-5)*model.OvertimePeriodSeconds + model.OvertimePeriodSeconds -
		secondsRemaining - minutesRemaining*60
}

// MaxGameSeconds returns the length of a game whose last period is maxPeriod.
func MaxGameSeconds(maxPeriod int) int {
	if maxPeriod <= model.RegulationPeriods {
		return model.RegulationSeconds
	}
	return model.RegulationSeconds + (maxPeriod-model.RegulationPeriods)*model.OvertimePeriodSeconds
}

type clockKey struct {
	gameID          string
	period, min, sec int
}

// Normalize parses the clock of every event, takes the absolute score
// differential and collapses events sharing (game, period, minute, second)
// into one row carrying the largest differential seen at that instant.
//
// Rows are ordered by game id, then period ascending, minutes remaining
// descending and seconds remaining ascending. The first malformed event
// aborts normalization.
func Normalize(events []model.PlayByPlayEvent) ([]model.NormalizedClockEvent, error) {
	best := make(map[clockKey]int, len(events))
	for _, e := range events {
		if e.Period < 1 {
			return nil, fmt.Errorf("%w: game %s: period %d", model.ErrMalformedClock, e.GameID, e.Period)
		}
		m, s, err := ParseClock(e.EndTime)
		if err != nil {
			return nil, fmt.Errorf("game %s period %d: %w", e.GameID, e.Period, err)
		}
		diff := e.StartScoreDiff
		if diff < 0 {
			diff = -diff
		}
		k := clockKey{e.GameID, e.Period, m, s}
		if prev, ok := best[k]; !ok || diff > prev {
			best[k] = diff
		}
	}

	out := make([]model.NormalizedClockEvent, 0, len(best))
	for k, diff := range best {
		out = append(out, model.NormalizedClockEvent{
			GameID:           k.gameID,
			Period:           k.period,
			MinutesRemaining: k.min,
			SecondsRemaining: k.sec,
			AbsScoreDiff:     diff,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.MinutesRemaining != b.MinutesRemaining {
			return a.MinutesRemaining > b.MinutesRemaining
		}
		return a.SecondsRemaining < b.SecondsRemaining
	})
	return out, nil
}

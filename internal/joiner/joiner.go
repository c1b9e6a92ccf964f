// Package joiner attaches per-second game context to shot events.
package joiner

import (
	"strings"

	"github.com/pable/go-nba-efg/internal/clock"
	"github.com/pable/go-nba-efg/internal/model"
)

// Timelines maps a game id to its dense score-differential timeline, indexed
// by time elapsed.
type Timelines map[string][]model.ScoreDiffSample

// IsThreePointZone reports whether a SHOT_ZONE_BASIC label denotes a
// three-point zone ("Above the Break 3", "Left Corner 3", ...).
func IsThreePointZone(zone string) bool {
	return strings.Contains(zone, "3")
}

// WithTimeElapsed returns a copy of shots with TimeElapsed and
// ThreePtAttempted set. Regulation shots come first, then overtime shots,
// each subset in input order.
func WithTimeElapsed(shots []model.ShotEvent) []model.ShotEvent {
	regulation := make([]model.ShotEvent, 0, len(shots))
	var overtime []model.ShotEvent
	for _, s := range shots {
		s.TimeElapsed = clock.TimeElapsed(s.Period, s.MinutesRemaining, s.SecondsRemaining)
		s.ThreePtAttempted = 0
		if IsThreePointZone(s.ShotZone) {
			s.ThreePtAttempted = 1
		}
		if s.Period <= model.RegulationPeriods {
			regulation = append(regulation, s)
		} else {
			overtime = append(overtime, s)
		}
	}
	return append(regulation, overtime...)
}

// Join left-joins every shot on (game id, time elapsed) against timelines.
// Shots with no matching second inherit the differential of the preceding
// joined row; rows before the first match stay unknown.
func Join(shots []model.ShotEvent, timelines Timelines) []model.JoinedShot {
	prepared := WithTimeElapsed(shots)
	out := make([]model.JoinedShot, len(prepared))
	for i, s := range prepared {
		out[i] = model.JoinedShot{ShotEvent: s}
		tl := timelines[s.GameID]
		if s.TimeElapsed >= 0 && s.TimeElapsed < len(tl) && tl[s.TimeElapsed].TimeElapsed == s.TimeElapsed {
			out[i].AbsScoreDiff = tl[s.TimeElapsed].AbsScoreDiff
			out[i].ScoreKnown = true
		}
	}

	for i := 1; i < len(out); i++ {
		if !out[i].ScoreKnown && out[i-1].ScoreKnown {
			out[i].AbsScoreDiff = out[i-1].AbsScoreDiff
			out[i].ScoreKnown = true
		}
	}
	return out
}

package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds surfaced by the pipeline. Callers match with errors.Is.
var (
	ErrMalformedClock = errors.New("malformed clock")
	ErrMissingGame    = errors.New("missing game")
	ErrEmptyTimeline  = errors.New("empty timeline")
)

// Game clock constants.
const (
	RegulationPeriods       = 4
	RegulationPeriodSeconds = 12 * 60
	OvertimePeriodSeconds   = 5 * 60
	RegulationSeconds       = RegulationPeriods * RegulationPeriodSeconds
)

// ---- Raw rows read from the dataset ----

// PlayByPlayEvent is one play-by-play row. EndTime is the "mm:ss" game clock
// at the end of the interval; StartScoreDiff is signed.
type PlayByPlayEvent struct {
	GameID         string
	Period         int
	EndTime        string
	StartScoreDiff int
}

// ShotEvent is one shot-detail row. TimeElapsed and ThreePtAttempted are
// derived by the joiner.
type ShotEvent struct {
	GameID           string
	GameDate         string
	PlayerID         string
	PlayerName       string
	TeamName         string
	Period           int
	MinutesRemaining int
	SecondsRemaining int
	ShotZone         string
	ShotAttempted    int
	ShotMade         int

	TimeElapsed      int
	ThreePtAttempted int
}

// ---- Derived per-game context ----

// NormalizedClockEvent is a play-by-play event reduced to its clock
// components and an unsigned differential.
type NormalizedClockEvent struct {
	GameID           string
	Period           int
	MinutesRemaining int
	SecondsRemaining int
	AbsScoreDiff     int
}

// ScoreDiffSample is one second of a game's dense differential timeline.
type ScoreDiffSample struct {
	GameID       string
	TimeElapsed  int
	AbsScoreDiff int
}

// JoinedShot is a shot with its game context attached. ScoreKnown is false
// when no differential could be attached.
type JoinedShot struct {
	ShotEvent
	AbsScoreDiff int
	ScoreKnown   bool
}

// AggregatedBucket holds the summed shooting stats of one
// (time bucket, score-diff bucket) cell. EFG is nil when FGA is zero.
type AggregatedBucket struct {
	TimeBucket      string   `json:"time_bucket"`
	ScoreDiffBucket string   `json:"score_diff_bucket"`
	FGA             int      `json:"FGA"`
	FGM             int      `json:"FGM"`
	ThreePA         int      `json:"3PA"`
	ThreePM         int      `json:"3PM"`
	EFG             *float64 `json:"EFG"`
}

// EFGString renders the efficiency with 3 decimals, or "" when undefined.
func (b AggregatedBucket) EFGString() string {
	if b.EFG == nil {
		return ""
	}
	return strconv.FormatFloat(*b.EFG, 'f', 3, 64)
}

// Season is identified by its trailing year: 2022 is the 2021-22 season.
type Season int

// ParseSeason accepts "2022", "2021-22" or "2021-2022" and returns the
// trailing year.
func ParseSeason(s string) (Season, error) {
	s = strings.TrimSpace(s)
	start, end, found := strings.Cut(s, "-")
	if !found {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1900 {
			return 0, fmt.Errorf("invalid season %q", s)
		}
		return Season(y), nil
	}
	y0, err := strconv.Atoi(start)
	if err != nil || y0 < 1900 {
		return 0, fmt.Errorf("invalid season %q", s)
	}
	switch len(end) {
	case 2:
		if _, err := strconv.Atoi(end); err != nil {
			return 0, fmt.Errorf("invalid season %q", s)
		}
		return Season(y0 + 1), nil
	case 4:
		y1, err := strconv.Atoi(end)
		if err != nil || y1 != y0+1 {
			return 0, fmt.Errorf("invalid season %q", s)
		}
		return Season(y1), nil
	}
	return 0, fmt.Errorf("invalid season %q", s)
}

// Label renders the season as "2021-2022".
func (s Season) Label() string {
	return fmt.Sprintf("%d-%d", int(s)-1, int(s))
}

func (s Season) String() string {
	return strconv.Itoa(int(s))
}

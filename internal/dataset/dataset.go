// Package dataset reads the raw play-by-play and shot-detail CSV files and
// reads/writes the per-season joined shot table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pable/go-nba-efg/internal/model"
)

// JoinedColumns is the fixed header of the persisted per-season table.
var JoinedColumns = []string{
	"GAME_ID", "GAME_DATE", "PLAYER_ID", "PLAYER_NAME", "TEAM_NAME", "PERIOD",
	"MINUTES_REMAINING", "SECONDS_REMAINING", "TIME_ELAPSED", "ABS_SCORE_DIFF",
	"SHOT_ATTEMPTED_FLAG", "SHOT_MADE_FLAG", "3PT_ATTEMPTED_FLAG",
}

// header maps column names to indexes. Lookups accept aliases so both
// GAMEID and GAME_ID spellings resolve.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	cols, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(cols))
	for i, c := range cols {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		h[strings.ToUpper(c)] = i
	}
	return h, nil
}

func (h header) index(names ...string) (int, error) {
	for _, n := range names {
		if i, ok := h[n]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %s", names[0])
}

func (h header) indexes(cols [][]string) ([]int, error) {
	out := make([]int, len(cols))
	for i, names := range cols {
		idx, err := h.index(names...)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseInt accepts integers and integral floats ("3.0") as pandas writes them.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// ReadStats reports how many data rows were read and how many were skipped.
type ReadStats struct {
	Rows    int
	Skipped int
}

// ReadPlayByPlay reads GAMEID, PERIOD, ENDTIME and STARTSCOREDIFFERENTIAL
// from a play-by-play CSV. Rows without an end time or differential carry no
// score observation and are skipped. An unparsable period is kept as period 0
// so the game is rejected during normalization instead of aborting the file.
func ReadPlayByPlay(r io.Reader) ([]model.PlayByPlayEvent, ReadStats, error) {
	var stats ReadStats
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, stats, err
	}
	idx, err := h.indexes([][]string{
		{"GAMEID", "GAME_ID"}, {"PERIOD"}, {"ENDTIME"}, {"STARTSCOREDIFFERENTIAL"},
	})
	if err != nil {
		return nil, stats, err
	}

	var out []model.PlayByPlayEvent
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read play-by-play: %w", err)
		}
		stats.Rows++
		gameID := field(rec, idx[0])
		endTime := field(rec, idx[2])
		diff, ok := parseInt(field(rec, idx[3]))
		if gameID == "" || endTime == "" || !ok {
			stats.Skipped++
			continue
		}
		period, _ := parseInt(field(rec, idx[1]))
		out = append(out, model.PlayByPlayEvent{
			GameID:         gameID,
			Period:         period,
			EndTime:        endTime,
			StartScoreDiff: diff,
		})
	}
	return out, stats, nil
}

// ReadShots reads a shot-detail CSV. Rows with a non-numeric period, clock or
// flag are skipped.
func ReadShots(r io.Reader) ([]model.ShotEvent, ReadStats, error) {
	var stats ReadStats
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, stats, err
	}
	idx, err := h.indexes([][]string{
		{"GAME_ID", "GAMEID"}, {"GAME_DATE"}, {"PLAYER_ID"}, {"PLAYER_NAME"}, {"TEAM_NAME"},
		{"PERIOD"}, {"MINUTES_REMAINING"}, {"SECONDS_REMAINING"}, {"SHOT_ZONE_BASIC"},
		{"SHOT_ATTEMPTED_FLAG"}, {"SHOT_MADE_FLAG"},
	})
	if err != nil {
		return nil, stats, err
	}

	var out []model.ShotEvent
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read shots: %w", err)
		}
		stats.Rows++
		ints, ok := parseInts(rec, idx[5], idx[6], idx[7], idx[9], idx[10])
		if !ok || field(rec, idx[0]) == "" {
			stats.Skipped++
			continue
		}
		out = append(out, model.ShotEvent{
			GameID:           field(rec, idx[0]),
			GameDate:         field(rec, idx[1]),
			PlayerID:         field(rec, idx[2]),
			PlayerName:       field(rec, idx[3]),
			TeamName:         field(rec, idx[4]),
			Period:           ints[0],
			MinutesRemaining: ints[1],
			SecondsRemaining: ints[2],
			ShotZone:         field(rec, idx[8]),
			ShotAttempted:    ints[3],
			ShotMade:         ints[4],
		})
	}
	return out, stats, nil
}

func parseInts(rec []string, cols ...int) ([]int, bool) {
	out := make([]int, len(cols))
	for i, c := range cols {
		v, ok := parseInt(field(rec, c))
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// WriteJoined writes shots with the JoinedColumns header. An unknown
// differential is written as an empty cell.
func WriteJoined(w io.Writer, shots []model.JoinedShot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(JoinedColumns); err != nil {
		return err
	}
	rec := make([]string, len(JoinedColumns))
	for _, s := range shots {
		rec[0] = s.GameID
		rec[1] = s.GameDate
		rec[2] = s.PlayerID
		rec[3] = s.PlayerName
		rec[4] = s.TeamName
		rec[5] = strconv.Itoa(s.Period)
		rec[6] = strconv.Itoa(s.MinutesRemaining)
		rec[7] = strconv.Itoa(s.SecondsRemaining)
		rec[8] = strconv.Itoa(s.TimeElapsed)
		rec[9] = ""
		if s.ScoreKnown {
			rec[9] = strconv.Itoa(s.AbsScoreDiff)
		}
		rec[10] = strconv.Itoa(s.ShotAttempted)
		rec[11] = strconv.Itoa(s.ShotMade)
		rec[12] = strconv.Itoa(s.ThreePtAttempted)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadJoined reads a table written by WriteJoined.
func ReadJoined(r io.Reader) ([]model.JoinedShot, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	cols := make([][]string, len(JoinedColumns))
	for i, c := range JoinedColumns {
		cols[i] = []string{c}
	}
	idx, err := h.indexes(cols)
	if err != nil {
		return nil, err
	}

	var out []model.JoinedShot
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read joined shots: %w", err)
		}
		line++
		ints, ok := parseInts(rec, idx[5], idx[6], idx[7], idx[8], idx[10], idx[11], idx[12])
		if !ok {
			return nil, fmt.Errorf("line %d: malformed numeric field", line)
		}
		s := model.JoinedShot{
			ShotEvent: model.ShotEvent{
				GameID:           field(rec, idx[0]),
				GameDate:         field(rec, idx[1]),
				PlayerID:         field(rec, idx[2]),
				PlayerName:       field(rec, idx[3]),
				TeamName:         field(rec, idx[4]),
				Period:           ints[0],
				MinutesRemaining: ints[1],
				SecondsRemaining: ints[2],
				TimeElapsed:      ints[3],
				ShotAttempted:    ints[4],
				ShotMade:         ints[5],
				ThreePtAttempted: ints[6],
			},
		}
		s.AbsScoreDiff, s.ScoreKnown = parseInt(field(rec, idx[9]))
		out = append(out, s)
	}
	return out, nil
}

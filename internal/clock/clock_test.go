package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-nba-efg/internal/model"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in       string
		min, sec int
	}{
		{"11:30", 11, 30},
		{"0:05", 0, 5},
		{"12:00", 12, 0},
		{"05:09", 5, 9},
		{" 3:41 ", 3, 41},
		{"5:3", 5, 3},
		{"0:0", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, s, err := ParseClock(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.min, m)
			assert.Equal(t, tt.sec, s)
		})
	}
}

func TestParseClockMalformed(t *testing.T) {
	for _, in := range []string{"", "1130", "11:", "11:300", "ab:cd", "11:60", "123:00", ":30", "11:30:00", "-1:30"} {
		t.Run(in, func(t *testing.T) {
			_, _, err := ParseClock(in)
			assert.ErrorIs(t, err, model.ErrMalformedClock)
		})
	}
}

func TestTimeElapsed(t *testing.T) {
	assert.Equal(t, 30, TimeElapsed(1, 11, 30))
	assert.Equal(t, 0, TimeElapsed(1, 12, 0))
	assert.Equal(t, 720, TimeElapsed(1, 0, 0))
	assert.Equal(t, 720, TimeElapsed(2, 12, 0))
	assert.Equal(t, 2880, TimeElapsed(4, 0, 0))
	assert.Equal(t, 2880, TimeElapsed(5, 5, 0))
	assert.Equal(t, 3180, TimeElapsed(5, 0, 0))
	assert.Equal(t, 3240, TimeElapsed(6, 4, 0))
}

func TestMaxGameSeconds(t *testing.T) {
	assert.Equal(t, 2880, MaxGameSeconds(1))
	assert.Equal(t, 2880, MaxGameSeconds(4))
	assert.Equal(t, 3180, MaxGameSeconds(5))
	assert.Equal(t, 3480, MaxGameSeconds(6))
}

func TestNormalizeKeepsLargestAbsoluteDiff(t *testing.T) {
	events := []model.PlayByPlayEvent{
		{GameID: "g", Period: 1, EndTime: "10:00", StartScoreDiff: 4},
		{GameID: "g", Period: 1, EndTime: "10:00", StartScoreDiff: -7},
		{GameID: "g", Period: 1, EndTime: "10:00", StartScoreDiff: 2},
	}
	got, err := Normalize(events)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.NormalizedClockEvent{
		GameID: "g", Period: 1, MinutesRemaining: 10, SecondsRemaining: 0, AbsScoreDiff: 7,
	}, got[0])
}

func TestNormalizeOrdering(t *testing.T) {
	events := []model.PlayByPlayEvent{
		{GameID: "b", Period: 1, EndTime: "11:00", StartScoreDiff: 1},
		{GameID: "a", Period: 2, EndTime: "11:00", StartScoreDiff: 1},
		{GameID: "a", Period: 1, EndTime: "3:10", StartScoreDiff: 1},
		{GameID: "a", Period: 1, EndTime: "3:05", StartScoreDiff: 1},
		{GameID: "a", Period: 1, EndTime: "11:59", StartScoreDiff: 1},
	}
	got, err := Normalize(events)
	require.NoError(t, err)

	type key struct {
		game         string
		period, m, s int
	}
	var keys []key
	for _, e := range got {
		keys = append(keys, key{e.GameID, e.Period, e.MinutesRemaining, e.SecondsRemaining})
	}
	assert.Equal(t, []key{
		{"a", 1, 11, 59},
		{"a", 1, 3, 5},
		{"a", 1, 3, 10},
		{"a", 2, 11, 0},
		{"b", 1, 11, 0},
	}, keys)
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	_, err := Normalize([]model.PlayByPlayEvent{{GameID: "g", Period: 1, EndTime: "bad"}})
	assert.ErrorIs(t, err, model.ErrMalformedClock)

	_, err = Normalize([]model.PlayByPlayEvent{{GameID: "g", Period: 0, EndTime: "10:00"}})
	assert.ErrorIs(t, err, model.ErrMalformedClock)
}

package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-nba-efg/internal/model"
)

func shot(player, team string, period, min, diff, made, three int) model.JoinedShot {
	return model.JoinedShot{
		ShotEvent: model.ShotEvent{
			PlayerName:       player,
			TeamName:         team,
			Period:           period,
			MinutesRemaining: min,
			ShotAttempted:    1,
			ShotMade:         made,
			ThreePtAttempted: three,
		},
		AbsScoreDiff: diff,
		ScoreKnown:   true,
	}
}

func find(t *testing.T, buckets []model.AggregatedBucket, timeLabel, scoreLabel string) model.AggregatedBucket {
	t.Helper()
	for _, b := range buckets {
		if b.TimeBucket == timeLabel && b.ScoreDiffBucket == scoreLabel {
			return b
		}
	}
	t.Fatalf("bucket %s/%s not found", timeLabel, scoreLabel)
	return model.AggregatedBucket{}
}

func TestScoreDiffBucket(t *testing.T) {
	tests := []struct {
		diff int
		want string
	}{
		{0, "0-5"}, {5, "0-5"}, {6, "6-10"}, {10, "6-10"}, {11, "11-15"},
		{15, "11-15"}, {16, "16-20"}, {20, "16-20"}, {21, "21+"}, {45, "21+"},
	}
	for _, tt := range tests {
		got, ok := ScoreDiffBucket(tt.diff)
		assert.True(t, ok, "diff %d", tt.diff)
		assert.Equal(t, tt.want, got, "diff %d", tt.diff)
	}
	_, ok := ScoreDiffBucket(-1)
	assert.False(t, ok)
}

func TestTimeBucket(t *testing.T) {
	assert.Equal(t, 29, RawMinutesRemaining(2, 5))
	label, ok := TimeBucket(29)
	require.True(t, ok)
	assert.Equal(t, "32-29", label)

	assert.Equal(t, 48, RawMinutesRemaining(1, 12))
	label, _ = TimeBucket(48)
	assert.Equal(t, "48-45", label)

	label, _ = TimeBucket(0)
	assert.Equal(t, "4-0", label)
	label, _ = TimeBucket(5)
	assert.Equal(t, "8-5", label)

	// Overtime counts as the 4th period.
	assert.Equal(t, 3, RawMinutesRemaining(6, 3))

	_, ok = TimeBucket(49)
	assert.False(t, ok)
	_, ok = TimeBucket(-1)
	assert.False(t, ok)
}

func TestLabels(t *testing.T) {
	times := TimeLabels()
	require.Len(t, times, 12)
	assert.Equal(t, "48-45", times[0])
	assert.Equal(t, "4-0", times[11])
	assert.Equal(t, []string{"0-5", "6-10", "11-15", "16-20", "21+"}, ScoreDiffLabels())
}

func TestEffectiveFGPct(t *testing.T) {
	assert.Nil(t, EffectiveFGPct(0, 0, 0))

	v := EffectiveFGPct(1, 0, 2)
	require.NotNil(t, v)
	assert.Equal(t, 0.5, *v)

	v = EffectiveFGPct(2, 1, 3)
	require.NotNil(t, v)
	assert.Equal(t, 0.833, *v)

	v = EffectiveFGPct(1, 1, 1)
	require.NotNil(t, v)
	assert.Equal(t, 1.5, *v)
}

func TestAggregate(t *testing.T) {
	shots := []model.JoinedShot{
		shot("A", "X", 2, 5, 3, 1, 1),
		shot("A", "X", 2, 6, 4, 1, 0),
		shot("B", "Y", 2, 7, 0, 0, 1),
		shot("B", "Y", 4, 1, 25, 1, 0),
	}
	got := Aggregate(shots, All())
	require.Len(t, got, 60)
	assert.Equal(t, "48-45", got[0].TimeBucket)
	assert.Equal(t, "0-5", got[0].ScoreDiffBucket)
	assert.Equal(t, "4-0", got[59].TimeBucket)
	assert.Equal(t, "21+", got[59].ScoreDiffBucket)

	b := find(t, got, "32-29", "0-5")
	assert.Equal(t, 3, b.FGA)
	assert.Equal(t, 2, b.FGM)
	assert.Equal(t, 2, b.ThreePA)
	assert.Equal(t, 1, b.ThreePM)
	require.NotNil(t, b.EFG)
	assert.Equal(t, 0.833, *b.EFG)

	late := find(t, got, "4-0", "21+")
	assert.Equal(t, 1, late.FGA)
	require.NotNil(t, late.EFG)
	assert.Equal(t, 1.0, *late.EFG)

	empty := find(t, got, "48-45", "11-15")
	assert.Zero(t, empty.FGA)
	assert.Nil(t, empty.EFG)
	assert.Equal(t, "", empty.EFGString())
}

func TestAggregateSkipsUnknownScore(t *testing.T) {
	s := shot("A", "X", 1, 11, 0, 1, 0)
	s.ScoreKnown = false
	got := Aggregate([]model.JoinedShot{s}, All())
	for _, b := range got {
		assert.Zero(t, b.FGA)
	}
}

func TestAggregateSelector(t *testing.T) {
	shots := []model.JoinedShot{
		shot("A", "X", 1, 11, 0, 1, 0),
		shot("B", "X", 1, 11, 0, 0, 0),
		shot("C", "Y", 1, 11, 0, 1, 0),
	}
	total := func(buckets []model.AggregatedBucket) (fga, fgm int) {
		for _, b := range buckets {
			fga += b.FGA
			fgm += b.FGM
		}
		return
	}

	fga, _ := total(Aggregate(shots, All()))
	assert.Equal(t, 3, fga)

	fga, fgm := total(Aggregate(shots, ByTeam("X")))
	assert.Equal(t, 2, fga)
	assert.Equal(t, 1, fgm)

	fga, _ = total(Aggregate(shots, ByPlayer("C")))
	assert.Equal(t, 1, fga)

	fga, _ = total(Aggregate(shots, ByPlayer("nobody")))
	assert.Zero(t, fga)
}

func TestSelectorFor(t *testing.T) {
	assert.Equal(t, ByPlayer("A"), SelectorFor("A", "X"))
	assert.Equal(t, ByTeam("X"), SelectorFor("", "X"))
	assert.Equal(t, All(), SelectorFor("", ""))
	assert.Equal(t, "A", SelectorFor("A", "X").Subject())
	assert.Equal(t, "", All().Subject())
}

func TestAggregateIsDeterministic(t *testing.T) {
	shots := []model.JoinedShot{
		shot("A", "X", 3, 2, 12, 1, 1),
		shot("B", "Y", 1, 9, 18, 0, 0),
	}
	assert.Equal(t, Aggregate(shots, All()), Aggregate(shots, All()))
}

func TestPivotBuckets(t *testing.T) {
	shots := []model.JoinedShot{
		shot("A", "X", 2, 5, 3, 1, 1),
		shot("A", "X", 2, 6, 4, 1, 0),
		shot("B", "Y", 2, 7, 0, 0, 1),
	}
	p := PivotBuckets(Aggregate(shots, All()))

	assert.Equal(t, []string{"21+", "16-20", "11-15", "6-10", "0-5"}, p.Rows)
	assert.Equal(t, TimeLabels(), p.Cols)
	require.Len(t, p.EFG, 5)
	require.Len(t, p.EFG[0], 12)

	// "0-5" is the last row, "32-29" the 5th column.
	v := p.EFG[4][4]
	require.NotNil(t, v)
	assert.Equal(t, 0.83, *v)
	assert.Equal(t, "2/3", p.Fraction[4][4])

	assert.Nil(t, p.EFG[0][0])
	assert.Equal(t, "0/0", p.Fraction[0][0])
}

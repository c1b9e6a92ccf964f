package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-nba-efg/internal/model"
)

func TestReadPlayByPlay(t *testing.T) {
	in := "\ufeffGAMEID,PERIOD,STARTTIME,ENDTIME,STARTSCOREDIFFERENTIAL\n" +
		"22100001,1,12:00,11:41,0\n" +
		"22100001,1,11:41,11:20,-3\n" +
		"22100001,1,11:20,,2\n" +
		"22100001,2,12:00,11:30,\n" +
		"22100002,x,12:00,11:30,1.0\n"

	got, stats, err := ReadPlayByPlay(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, ReadStats{Rows: 5, Skipped: 2}, stats)
	require.Len(t, got, 3)
	assert.Equal(t, model.PlayByPlayEvent{GameID: "22100001", Period: 1, EndTime: "11:20", StartScoreDiff: -3}, got[1])
	// An unparsable period is kept as 0 so the game is rejected later.
	assert.Equal(t, 0, got[2].Period)
	assert.Equal(t, 1, got[2].StartScoreDiff)
}

func TestReadPlayByPlayMissingColumn(t *testing.T) {
	_, _, err := ReadPlayByPlay(strings.NewReader("GAMEID,PERIOD,ENDTIME\n1,1,11:00\n"))
	assert.ErrorContains(t, err, "STARTSCOREDIFFERENTIAL")

	_, _, err = ReadPlayByPlay(strings.NewReader(""))
	assert.Error(t, err)
}

const shotHeader = "GRID_TYPE,GAME_ID,GAME_EVENT_ID,PLAYER_ID,PLAYER_NAME,TEAM_ID,TEAM_NAME,PERIOD," +
	"MINUTES_REMAINING,SECONDS_REMAINING,EVENT_TYPE,ACTION_TYPE,SHOT_TYPE,SHOT_ZONE_BASIC," +
	"SHOT_ZONE_AREA,SHOT_ZONE_RANGE,SHOT_DISTANCE,LOC_X,LOC_Y,SHOT_ATTEMPTED_FLAG,SHOT_MADE_FLAG,GAME_DATE\n"

func TestReadShots(t *testing.T) {
	in := shotHeader +
		`Shot Chart Detail,0022100001,7,201142,Kevin Durant,1610612751,Brooklyn Nets,1,11,30,Made Shot,Jump Shot,2PT Field Goal,Mid-Range,Center(C),16-24 ft.,17,-10,170,1,1,20211019` + "\n" +
		`Shot Chart Detail,0022100001,9,202681,Kyrie Irving,1610612751,Brooklyn Nets,1.0,10.0,5.0,Missed Shot,Jump Shot,3PT Field Goal,Above the Break 3,Center(C),24+ ft.,26,5,260,1.0,0.0,20211019` + "\n" +
		`Shot Chart Detail,0022100001,11,1,Nobody,1,Nets,one,10,5,Missed Shot,Jump Shot,3PT Field Goal,Left Corner 3,Left Side(L),24+ ft.,23,-220,10,1,0,20211019` + "\n"

	got, stats, err := ReadShots(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, ReadStats{Rows: 3, Skipped: 1}, stats)
	require.Len(t, got, 2)

	assert.Equal(t, model.ShotEvent{
		GameID:           "0022100001",
		GameDate:         "20211019",
		PlayerID:         "201142",
		PlayerName:       "Kevin Durant",
		TeamName:         "Brooklyn Nets",
		Period:           1,
		MinutesRemaining: 11,
		SecondsRemaining: 30,
		ShotZone:         "Mid-Range",
		ShotAttempted:    1,
		ShotMade:         1,
	}, got[0])
	assert.Equal(t, 10, got[1].MinutesRemaining)
	assert.Equal(t, "Above the Break 3", got[1].ShotZone)
	assert.Equal(t, 0, got[1].ShotMade)
}

func TestWriteJoinedBlankUnknownScore(t *testing.T) {
	shots := []model.JoinedShot{
		{
			ShotEvent: model.ShotEvent{
				GameID: "g", GameDate: "20220101", PlayerID: "1", PlayerName: "A", TeamName: "X",
				Period: 1, MinutesRemaining: 11, SecondsRemaining: 30, TimeElapsed: 30,
				ShotAttempted: 1, ShotMade: 1, ThreePtAttempted: 1,
			},
			AbsScoreDiff: 4,
			ScoreKnown:   true,
		},
		{
			ShotEvent: model.ShotEvent{
				GameID: "g", GameDate: "20220101", PlayerID: "2", PlayerName: "B", TeamName: "Y",
				Period: 1, MinutesRemaining: 11, SecondsRemaining: 50, TimeElapsed: 10,
				ShotAttempted: 1,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJoined(&buf, shots))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(JoinedColumns, ","), lines[0])
	assert.Equal(t, "g,20220101,1,A,X,1,11,30,30,4,1,1,1", lines[1])
	assert.Equal(t, "g,20220101,2,B,Y,1,11,50,10,,1,0,0", lines[2])

	back, err := ReadJoined(&buf)
	require.NoError(t, err)
	assert.Equal(t, shots, back)
}

func TestReadJoinedRejectsBadNumbers(t *testing.T) {
	in := strings.Join(JoinedColumns, ",") + "\n" + "g,d,1,A,X,one,11,30,30,4,1,1,1\n"
	_, err := ReadJoined(strings.NewReader(in))
	assert.ErrorContains(t, err, "line 2")
}

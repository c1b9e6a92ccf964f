package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pable/go-nba-efg/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func shot(game, player, team string, elapsed, diff int, known bool) model.JoinedShot {
	return model.JoinedShot{
		ShotEvent: model.ShotEvent{
			GameID:           game,
			GameDate:         "20220101",
			PlayerID:         player + "-id",
			PlayerName:       player,
			TeamName:         team,
			Period:           1,
			MinutesRemaining: 11,
			SecondsRemaining: 30,
			TimeElapsed:      elapsed,
			ShotAttempted:    1,
			ShotMade:         1,
			ThreePtAttempted: 0,
		},
		AbsScoreDiff: diff,
		ScoreKnown:   known,
	}
}

func TestReplaceSeasonAndExists(t *testing.T) {
	db := openMemDB(t)

	exists, err := db.SeasonExists(2022)
	if err != nil {
		t.Fatalf("SeasonExists: %v", err)
	}
	if exists {
		t.Error("expected empty db to have no seasons")
	}

	shots := []model.JoinedShot{
		shot("g1", "A", "Team X", 30, 3, true),
		shot("g1", "B", "Team Y", 45, 0, false),
	}
	if err := db.ReplaceSeason(SeasonSummary{Season: 2022, Games: 1}, shots); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}
	exists, err = db.SeasonExists(2022)
	if err != nil {
		t.Fatalf("SeasonExists: %v", err)
	}
	if !exists {
		t.Error("expected season to exist after replace")
	}
}

func TestGetShotsRoundTripsUnknownScore(t *testing.T) {
	db := openMemDB(t)

	shots := []model.JoinedShot{
		shot("g1", "A", "Team X", 30, 3, true),
		shot("g1", "B", "Team Y", 45, 0, false),
	}
	if err := db.ReplaceSeason(SeasonSummary{Season: 2022, Games: 1}, shots); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}

	got, err := db.GetShots(2022)
	if err != nil {
		t.Fatalf("GetShots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(got))
	}
	if got[0] != shots[0] {
		t.Errorf("shot 0: got %+v, want %+v", got[0], shots[0])
	}
	if got[1].ScoreKnown {
		t.Error("expected NULL score diff to read back as unknown")
	}
}

func TestReplaceSeasonOverwrites(t *testing.T) {
	db := openMemDB(t)

	first := []model.JoinedShot{shot("g1", "A", "X", 1, 1, true), shot("g1", "A", "X", 2, 1, true)}
	if err := db.ReplaceSeason(SeasonSummary{Season: 2022, Games: 1}, first); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}
	second := []model.JoinedShot{shot("g2", "C", "Z", 5, 9, true)}
	if err := db.ReplaceSeason(SeasonSummary{Season: 2022, Games: 1, UnmatchedShots: 4}, second); err != nil {
		t.Fatalf("ReplaceSeason again: %v", err)
	}

	got, err := db.GetShots(2022)
	if err != nil {
		t.Fatalf("GetShots: %v", err)
	}
	if len(got) != 1 || got[0].GameID != "g2" {
		t.Errorf("expected only the replacement shot, got %+v", got)
	}

	list, err := db.ListSeasons()
	if err != nil {
		t.Fatalf("ListSeasons: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 season, got %d", len(list))
	}
	if list[0].UnmatchedShots != 4 || list[0].Shots != 1 {
		t.Errorf("unexpected summary %+v", list[0])
	}
}

func TestListSeasonsNewestFirst(t *testing.T) {
	db := openMemDB(t)

	for _, s := range []model.Season{2020, 2022, 2021} {
		if err := db.ReplaceSeason(SeasonSummary{Season: s}, nil); err != nil {
			t.Fatalf("ReplaceSeason %d: %v", s, err)
		}
	}
	list, err := db.ListSeasons()
	if err != nil {
		t.Fatalf("ListSeasons: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 seasons, got %d", len(list))
	}
	for i, want := range []model.Season{2022, 2021, 2020} {
		if list[i].Season != want {
			t.Errorf("position %d: got %d, want %d", i, list[i].Season, want)
		}
	}
	if list[0].IngestedAt == "" {
		t.Error("expected ingested_at to be set")
	}
}

func TestGetShotsMissingSeason(t *testing.T) {
	db := openMemDB(t)

	_, err := db.GetShots(1999)
	if !errors.Is(err, model.ErrMissingGame) {
		t.Errorf("expected ErrMissingGame, got %v", err)
	}
}

func TestGetGameShots(t *testing.T) {
	db := openMemDB(t)

	shots := []model.JoinedShot{
		shot("g1", "A", "X", 90, 1, true),
		shot("g2", "B", "Y", 10, 2, true),
		shot("g1", "A", "X", 20, 0, true),
	}
	if err := db.ReplaceSeason(SeasonSummary{Season: 2022, Games: 2}, shots); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}

	got, err := db.GetGameShots(2022, "g1")
	if err != nil {
		t.Fatalf("GetGameShots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(got))
	}
	// Ordered by time elapsed, not insertion.
	if got[0].TimeElapsed != 20 || got[1].TimeElapsed != 90 {
		t.Errorf("unexpected order: %d, %d", got[0].TimeElapsed, got[1].TimeElapsed)
	}

	if _, err := db.GetGameShots(2022, "nope"); !errors.Is(err, model.ErrMissingGame) {
		t.Errorf("expected ErrMissingGame for unknown game, got %v", err)
	}
}

func TestPlayersAndTeamsFirstSeenOrder(t *testing.T) {
	db := openMemDB(t)

	shots := []model.JoinedShot{
		shot("g1", "Zed", "Wolves", 1, 0, true),
		shot("g1", "Amy", "Bulls", 2, 0, true),
		shot("g1", "Zed", "Wolves", 3, 0, true),
		shot("g2", "Bob", "Bulls", 4, 0, true),
	}
	if err := db.ReplaceSeason(SeasonSummary{Season: 2022}, shots); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}

	players, err := db.Players(2022)
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	wantPlayers := []string{"Zed", "Amy", "Bob"}
	if len(players) != len(wantPlayers) {
		t.Fatalf("players: got %v, want %v", players, wantPlayers)
	}
	for i := range wantPlayers {
		if players[i] != wantPlayers[i] {
			t.Errorf("players[%d]: got %q, want %q", i, players[i], wantPlayers[i])
		}
	}

	teams, err := db.Teams(2022)
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if len(teams) != 2 || teams[0] != "Wolves" || teams[1] != "Bulls" {
		t.Errorf("teams: got %v", teams)
	}
}

func TestDeleteSeason(t *testing.T) {
	db := openMemDB(t)

	if err := db.ReplaceSeason(SeasonSummary{Season: 2022}, []model.JoinedShot{shot("g1", "A", "X", 1, 0, true)}); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}
	removed, err := db.DeleteSeason(2022)
	if err != nil {
		t.Fatalf("DeleteSeason: %v", err)
	}
	if !removed {
		t.Error("expected season to be reported as removed")
	}
	_, rows, err := db.QueryRaw("SELECT COUNT(1) FROM shots")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if rows[0][0] != "0" {
		t.Errorf("expected no shots left, got %s", rows[0][0])
	}

	removed, err = db.DeleteSeason(2022)
	if err != nil {
		t.Fatalf("DeleteSeason again: %v", err)
	}
	if removed {
		t.Error("expected second delete to report nothing removed")
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)

	shots := []model.JoinedShot{shot("g1", "A", "X", 1, 0, false)}
	if err := db.ReplaceSeason(SeasonSummary{Season: 2022}, shots); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}
	cols, rows, err := db.QueryRaw("SELECT player_name, abs_score_diff FROM shots")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "player_name" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "A" || rows[0][1] != "" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shots.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.ReplaceSeason(SeasonSummary{Season: 2022}, nil); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file at %s: %v", path, err)
	}
}

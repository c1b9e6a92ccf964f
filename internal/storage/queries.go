package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-nba-efg/internal/model"
)

// SeasonSummary describes one ingested season.
type SeasonSummary struct {
	Season         model.Season
	IngestedAt     string
	Games          int
	FailedGames    int
	UnmatchedShots int
	Shots          int
}

// SeasonExists returns true if the season has been ingested.
func (db *DB) SeasonExists(season model.Season) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM seasons WHERE season = ?", int(season)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceSeason stores the joined shots of a season in a transaction,
// replacing anything stored for it before. Row order is preserved.
func (db *DB) ReplaceSeason(s SeasonSummary, shots []model.JoinedShot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shots WHERE season = ?", int(s.Season)); err != nil {
		return fmt.Errorf("clear shots: %w", err)
	}
	if s.IngestedAt == "" {
		s.IngestedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO seasons(season, ingested_at, games, failed_games, unmatched_shots)
		VALUES (?, ?, ?, ?, ?)`,
		int(s.Season), s.IngestedAt, s.Games, s.FailedGames, s.UnmatchedShots,
	)
	if err != nil {
		return fmt.Errorf("insert season: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO shots(
			season, row_no, game_id, game_date, player_id, player_name, team_name,
			period, minutes_remaining, seconds_remaining, time_elapsed, abs_score_diff,
			shot_attempted_flag, shot_made_flag, three_pt_attempted
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, sh := range shots {
		var diff sql.NullInt64
		if sh.ScoreKnown {
			diff = sql.NullInt64{Int64: int64(sh.AbsScoreDiff), Valid: true}
		}
		_, err = stmt.Exec(
			int(s.Season), i, sh.GameID, sh.GameDate, sh.PlayerID, sh.PlayerName, sh.TeamName,
			sh.Period, sh.MinutesRemaining, sh.SecondsRemaining, sh.TimeElapsed, diff,
			sh.ShotAttempted, sh.ShotMade, sh.ThreePtAttempted,
		)
		if err != nil {
			return fmt.Errorf("insert shot %d of game %s: %w", i, sh.GameID, err)
		}
	}
	return tx.Commit()
}

// ListSeasons returns all ingested seasons, newest first.
func (db *DB) ListSeasons() ([]SeasonSummary, error) {
	rows, err := db.conn.Query(`
		SELECT s.season, s.ingested_at, s.games, s.failed_games, s.unmatched_shots,
		       (SELECT COUNT(1) FROM shots WHERE shots.season = s.season)
		FROM seasons s ORDER BY s.season DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeasonSummary
	for rows.Next() {
		var s SeasonSummary
		var season int
		if err := rows.Scan(&season, &s.IngestedAt, &s.Games, &s.FailedGames, &s.UnmatchedShots, &s.Shots); err != nil {
			return nil, err
		}
		s.Season = model.Season(season)
		out = append(out, s)
	}
	return out, rows.Err()
}

const shotColumns = `game_id, game_date, player_id, player_name, team_name,
	period, minutes_remaining, seconds_remaining, time_elapsed, abs_score_diff,
	shot_attempted_flag, shot_made_flag, three_pt_attempted`

func scanShots(rows *sql.Rows) ([]model.JoinedShot, error) {
	defer rows.Close()
	var out []model.JoinedShot
	for rows.Next() {
		var s model.JoinedShot
		var diff sql.NullInt64
		if err := rows.Scan(
			&s.GameID, &s.GameDate, &s.PlayerID, &s.PlayerName, &s.TeamName,
			&s.Period, &s.MinutesRemaining, &s.SecondsRemaining, &s.TimeElapsed, &diff,
			&s.ShotAttempted, &s.ShotMade, &s.ThreePtAttempted,
		); err != nil {
			return nil, err
		}
		if diff.Valid {
			s.AbsScoreDiff = int(diff.Int64)
			s.ScoreKnown = true
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetShots returns a season's joined shots in stored order. A season that
// was never ingested yields model.ErrMissingGame.
func (db *DB) GetShots(season model.Season) ([]model.JoinedShot, error) {
	ok, err := db.SeasonExists(season)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("season %s: %w", season.Label(), model.ErrMissingGame)
	}
	rows, err := db.conn.Query(
		"SELECT "+shotColumns+" FROM shots WHERE season = ? ORDER BY row_no", int(season))
	if err != nil {
		return nil, err
	}
	return scanShots(rows)
}

// GetGameShots returns one game's shots ordered by time elapsed.
func (db *DB) GetGameShots(season model.Season, gameID string) ([]model.JoinedShot, error) {
	rows, err := db.conn.Query(
		"SELECT "+shotColumns+" FROM shots WHERE season = ? AND game_id = ? ORDER BY time_elapsed, row_no",
		int(season), gameID)
	if err != nil {
		return nil, err
	}
	shots, err := scanShots(rows)
	if err != nil {
		return nil, err
	}
	if len(shots) == 0 {
		return nil, fmt.Errorf("game %s in season %s: %w", gameID, season.Label(), model.ErrMissingGame)
	}
	return shots, nil
}

// Players returns the distinct player names of a season in first-seen order.
func (db *DB) Players(season model.Season) ([]string, error) {
	return db.distinct(season, "player_name")
}

// Teams returns the distinct team names of a season in first-seen order.
func (db *DB) Teams(season model.Season) ([]string, error) {
	return db.distinct(season, "team_name")
}

func (db *DB) distinct(season model.Season, column string) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT "+column+" FROM shots WHERE season = ? GROUP BY "+column+" ORDER BY MIN(row_no)",
		int(season))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// DeleteSeason removes a season and its shots. It reports whether the season
// was stored.
func (db *DB) DeleteSeason(season model.Season) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shots WHERE season = ?", int(season)); err != nil {
		return false, fmt.Errorf("delete shots: %w", err)
	}
	res, err := tx.Exec("DELETE FROM seasons WHERE season = ?", int(season))
	if err != nil {
		return false, fmt.Errorf("delete season: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pable/go-nba-efg/internal/dataset"
	"github.com/pable/go-nba-efg/internal/fetch"
	"github.com/pable/go-nba-efg/internal/model"
	"github.com/pable/go-nba-efg/internal/pipeline"
	"github.com/pable/go-nba-efg/internal/storage"
)

func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func parseSeasons(args []string) ([]model.Season, error) {
	out := make([]model.Season, 0, len(args))
	for _, a := range args {
		s, err := model.ParseSeason(a)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func rawPath(kind string, season model.Season) string {
	return filepath.Join(cfg.DataDir, fetch.ArchiveName(kind, season)+".csv")
}

func processedPath(season model.Season) string {
	return filepath.Join(cfg.OutDir, fmt.Sprintf("shot_detail_pbp_%d.csv", int(season)))
}

// processSeason runs the pipeline over the raw CSVs of a season, writes the
// processed CSV and replaces the season in the store.
func processSeason(ctx context.Context, db *storage.DB, season model.Season) (*pipeline.Result, error) {
	log := logger.With().Str("season", season.Label()).Logger()

	pbpFile, err := os.Open(rawPath(fetch.KindPlayByPlay, season))
	if err != nil {
		return nil, fmt.Errorf("open play-by-play (run 'nbaefg fetch %d' first): %w", int(season), err)
	}
	defer pbpFile.Close()
	events, pbpStats, err := dataset.ReadPlayByPlay(pbpFile)
	if err != nil {
		return nil, fmt.Errorf("read play-by-play: %w", err)
	}
	log.Info().Str("kind", fetch.KindPlayByPlay).Int("rows", pbpStats.Rows).Int("skipped", pbpStats.Skipped).Msg("loaded")

	shotFile, err := os.Open(rawPath(fetch.KindShotDetail, season))
	if err != nil {
		return nil, fmt.Errorf("open shot detail (run 'nbaefg fetch %d' first): %w", int(season), err)
	}
	defer shotFile.Close()
	shots, shotStats, err := dataset.ReadShots(shotFile)
	if err != nil {
		return nil, fmt.Errorf("read shot detail: %w", err)
	}
	log.Info().Str("kind", fetch.KindShotDetail).Int("rows", shotStats.Rows).Int("skipped", shotStats.Skipped).Msg("loaded")

	p := pipeline.New(pipeline.WithWorkers(cfg.Workers), pipeline.WithLogger(log))
	res, err := p.Run(ctx, events, shots)
	if err != nil {
		return nil, fmt.Errorf("process season: %w", err)
	}

	if err := writeProcessed(season, res.Shots); err != nil {
		return nil, err
	}
	err = db.ReplaceSeason(storage.SeasonSummary{
		Season:         season,
		Games:          res.Games,
		FailedGames:    len(res.Failed),
		UnmatchedShots: res.UnmatchedShots,
	}, res.Shots)
	if err != nil {
		return nil, fmt.Errorf("store season: %w", err)
	}
	return res, nil
}

func writeProcessed(season model.Season, shots []model.JoinedShot) error {
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	path := processedPath(season)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := dataset.WriteJoined(f, shots); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// loadShots returns a season's joined shots from csvPath when set, else
// from the store.
func loadShots(db *storage.DB, season model.Season, csvPath string) ([]model.JoinedShot, error) {
	if csvPath == "" {
		return db.GetShots(season)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", csvPath, err)
	}
	defer f.Close()
	return dataset.ReadJoined(f)
}

// Package pipeline turns one season of raw play-by-play and shot rows into
// joined shots with game context.
package pipeline

import (
	"context"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-nba-efg/internal/clock"
	"github.com/pable/go-nba-efg/internal/joiner"
	"github.com/pable/go-nba-efg/internal/model"
	"github.com/pable/go-nba-efg/internal/timeline"
)

// GameError records a game dropped from the season and why.
type GameError struct {
	GameID string
	Err    error
}

// Result is the outcome of one season run.
type Result struct {
	Shots []model.JoinedShot
	// Games is the number of games with a score timeline.
	Games int
	// Failed lists games whose play-by-play could not be processed.
	Failed []GameError
	// UnmatchedShots counts shots whose game has no timeline. They stay in
	// Shots and take their differential from the forward fill, if any.
	UnmatchedShots int
}

// Pipeline processes games on a bounded pool of workers.
type Pipeline struct {
	workers int
	log     zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds the number of games processed concurrently.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used to report skipped games and unmatched shots.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New returns a Pipeline. Defaults: one worker per CPU, no logging.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{workers: runtime.NumCPU(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// groupByGame splits events per game id, ids sorted ascending.
func groupByGame(events []model.PlayByPlayEvent) ([]string, map[string][]model.PlayByPlayEvent) {
	byGame := make(map[string][]model.PlayByPlayEvent)
	for _, e := range events {
		byGame[e.GameID] = append(byGame[e.GameID], e)
	}
	ids := make([]string, 0, len(byGame))
	for id := range byGame {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, byGame
}

// Game normalizes one game's play-by-play and builds its timeline.
func Game(gameID string, events []model.PlayByPlayEvent) ([]model.ScoreDiffSample, error) {
	norm, err := clock.Normalize(events)
	if err != nil {
		return nil, err
	}
	return timeline.Build(gameID, norm)
}

// Timelines builds the score timeline of every game in events. A game that
// fails is logged and listed in the returned GameErrors; it never stops the
// others. The only returned error is context cancellation.
func (p *Pipeline) Timelines(ctx context.Context, events []model.PlayByPlayEvent) (joiner.Timelines, []GameError, error) {
	ids, byGame := groupByGame(events)

	type outcome struct {
		samples []model.ScoreDiffSample
		err     error
	}
	results := make([]outcome, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			samples, err := Game(id, byGame[id])
			results[i] = outcome{samples: samples, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	timelines := make(joiner.Timelines, len(ids))
	var failed []GameError
	for i, id := range ids {
		r := results[i]
		if r.err != nil {
			p.log.Warn().Str("game_id", id).Err(r.err).Msg("skipping game")
			failed = append(failed, GameError{GameID: id, Err: r.err})
			continue
		}
		timelines[id] = r.samples
	}
	return timelines, failed, nil
}

// Run builds every game's timeline and left-joins every shot against them.
// Shots of games without a timeline are kept, logged and counted.
func (p *Pipeline) Run(ctx context.Context, events []model.PlayByPlayEvent, shots []model.ShotEvent) (*Result, error) {
	timelines, failed, err := p.Timelines(ctx, events)
	if err != nil {
		return nil, err
	}

	missing := make(map[string]int)
	for _, s := range shots {
		if _, ok := timelines[s.GameID]; !ok {
			missing[s.GameID]++
		}
	}

	unmatched := 0
	missingIDs := make([]string, 0, len(missing))
	for id, n := range missing {
		missingIDs = append(missingIDs, id)
		unmatched += n
	}
	sort.Strings(missingIDs)
	for _, id := range missingIDs {
		p.log.Warn().Str("game_id", id).Int("shots", missing[id]).
			Err(model.ErrMissingGame).Msg("shots without play-by-play")
	}

	joined := joiner.Join(shots, timelines)
	p.log.Debug().Int("games", len(timelines)).Int("shots", len(joined)).Msg("season joined")

	return &Result{
		Shots:          joined,
		Games:          len(timelines),
		Failed:         failed,
		UnmatchedShots: unmatched,
	}, nil
}

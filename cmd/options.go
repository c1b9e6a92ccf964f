package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/model"
	"github.com/pable/go-nba-efg/internal/storage"
)

var optionsCmd = &cobra.Command{
	Use:   "options <season> <player|team>",
	Short: "List the player or team names available for a season",
	Args:  cobra.ExactArgs(2),
	RunE:  runOptions,
}

func runOptions(_ *cobra.Command, args []string) error {
	season, err := model.ParseSeason(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	names, err := selectionOptions(db, season, args[1])
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(os.Stdout, n)
	}
	return nil
}

// selectionOptions lists player names for "player", team names otherwise.
func selectionOptions(db *storage.DB, season model.Season, filter string) ([]string, error) {
	ok, err := db.SeasonExists(season)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("season %s: %w", season.Label(), model.ErrMissingGame)
	}
	if strings.EqualFold(filter, "player") {
		return db.Players(season)
	}
	return db.Teams(season)
}

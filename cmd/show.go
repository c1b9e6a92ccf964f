package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/model"
	"github.com/pable/go-nba-efg/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <season> <game-id>",
	Short: "Show one game's shots with their score context",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func runShow(_ *cobra.Command, args []string) error {
	season, err := model.ParseSeason(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	shots, err := db.GetGameShots(season, args[1])
	if err != nil {
		return err
	}
	report.PrintGameShots(os.Stdout, shots)
	return nil
}

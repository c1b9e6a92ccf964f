package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/config"
	"github.com/pable/go-nba-efg/internal/logging"
)

var (
	configPath string
	cfg        = config.Default()
	logger     = zerolog.Nop()

	flagDBPath    string
	flagDataDir   string
	flagOutDir    string
	flagWorkers   int
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "nbaefg",
	Short: "NBA shot-context efficiency tool",
	Long: `Join NBA play-by-play score differentials onto shot locations and report
effective field-goal percentage by minutes remaining and score differential.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default $NBAEFG_CONFIG)")
	pf.StringVar(&flagDBPath, "db", cfg.DBPath, "path to SQLite database")
	pf.StringVar(&flagDataDir, "data-dir", cfg.DataDir, "directory holding raw season CSVs")
	pf.StringVar(&flagOutDir, "out-dir", cfg.OutDir, "directory for processed season CSVs")
	pf.IntVar(&flagWorkers, "workers", cfg.Workers, "games processed concurrently")
	pf.StringVar(&flagLogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", cfg.LogFormat, "log format (console, json)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig layers file and env settings, then flags the user set
// explicitly, and builds the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.DBPath = flagDBPath
	}
	if flags.Changed("data-dir") {
		loaded.DataDir = flagDataDir
	}
	if flags.Changed("out-dir") {
		loaded.OutDir = flagOutDir
	}
	if flags.Changed("workers") {
		loaded.Workers = flagWorkers
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		loaded.LogFormat = flagLogFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(loaded.LogLevel, loaded.LogFormat)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	return nil
}

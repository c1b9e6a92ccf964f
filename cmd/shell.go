package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/aggregator"
	"github.com/pable/go-nba-efg/internal/model"
	"github.com/pable/go-nba-efg/internal/report"
	"github.com/pable/go-nba-efg/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sh := &shell{db: db, cache: make(map[model.Season][]model.JoinedShot)}

	cGreeting.Println("nbaefg shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("nbaefg")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		tokens, err := splitLine(scanner.Text())
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			sh.list()
		case "heatmap":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, `usage: heatmap <season> [--player "name" | --team "name"] [--svg path]`)
				continue
			}
			sh.heatmap(args)
		case "options":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: options <season> player|team")
				continue
			}
			sh.options(args[0], args[1])
		case "show":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: show <season> <game-id>")
				continue
			}
			sh.show(args[0], args[1])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return scanner.Err()
}

// shell keeps loaded seasons between commands.
type shell struct {
	db    *storage.DB
	cache map[model.Season][]model.JoinedShot
}

func (sh *shell) shots(season model.Season) ([]model.JoinedShot, error) {
	if s, ok := sh.cache[season]; ok {
		return s, nil
	}
	s, err := sh.db.GetShots(season)
	if err != nil {
		return nil, err
	}
	sh.cache[season] = s
	return s, nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored seasons"},
		{"heatmap <season>", "eFG% grid for the whole league"},
		{`heatmap <season> --player "name"`, "same, for one player"},
		{`heatmap <season> --team "name"`, "same, for one team"},
		{"heatmap ... --svg <path>", "also write the heatmap as SVG"},
		{"options <season> player|team", "list selectable names"},
		{"show <season> <game-id>", "one game's shots with score context"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (sh *shell) list() {
	seasons, err := sh.db.ListSeasons()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(seasons) == 0 {
		cMuted.Println("No seasons stored yet.")
		return
	}
	report.PrintSeasons(os.Stdout, seasons)
}

func (sh *shell) heatmap(args []string) {
	season, err := model.ParseSeason(args[0])
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	var player, team, svgPath string
	for i := 1; i+1 < len(args); i += 2 {
		switch args[i] {
		case "--player":
			player = args[i+1]
		case "--team":
			team = args[i+1]
		case "--svg":
			svgPath = args[i+1]
		default:
			cWarn.Fprintf(os.Stderr, "ignoring %q\n", args[i])
		}
	}
	shots, err := sh.shots(season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if err := renderHeatmap(season, aggregator.SelectorFor(player, team), shots, false, svgPath); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func (sh *shell) options(seasonArg, filter string) {
	season, err := model.ParseSeason(seasonArg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	names, err := selectionOptions(sh.db, season, filter)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	for _, n := range names {
		fmt.Println(n)
	}
	cMuted.Printf("(%d)\n", len(names))
}

func (sh *shell) show(seasonArg, gameID string) {
	season, err := model.ParseSeason(seasonArg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	shots, err := sh.db.GetGameShots(season, gameID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintGameShots(os.Stdout, shots)
}

// splitLine splits a shell line on whitespace, keeping double-quoted runs
// together so names with spaces survive.
func splitLine(line string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case !quoted && (r == ' ' || r == '\t'):
			if pending {
				out = append(out, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if pending {
		out = append(out, cur.String())
	}
	return out, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-nba-efg/internal/aggregator"
	"github.com/pable/go-nba-efg/internal/model"
)

const analyzeSystemPrompt = `You are an NBA shooting analyst. You are given shot efficiency data bucketed
by game clock and absolute score difference, and a question about it.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers (FGM/FGA and eFG%) when making a claim.
- Treat buckets with fewer than 20 attempts as noise and say so.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise.

Glossary:
- eFG%: (FGM + 0.5 * 3PM) / FGA. League average is usually 0.50 to 0.55.
- time_bucket: minutes remaining in regulation, "48-45" is the opening 4 minutes
  and "4-0" the last 4 minutes of the 4th quarter. Overtime shots count as 4th-quarter minutes.
- score_diff_bucket: absolute score margin when the shot was taken. "0-5" is a
  close game, "21+" is garbage time.
- efg null: no attempts in that bucket.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzePlayer string
	analyzeTeam   string
	analyzeCSV    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <season> <question>",
	Short: "AI-powered grounded analysis of a heatmap (requires ANTHROPIC_API_KEY)",
	Long: `Sends the aggregated eFG% buckets of a season, optionally for one player or
team, to the Anthropic API together with a question and streams the answer.

Example:
  nbaefg analyze 2022 --player "Stephen Curry" "Does he shoot better in close games?"`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().StringVar(&analyzePlayer, "player", "", "only this player's shots")
	analyzeCmd.Flags().StringVar(&analyzeTeam, "team", "", "only this team's shots")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "read a processed season CSV instead of the database")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	season, err := model.ParseSeason(args[0])
	if err != nil {
		return err
	}
	question := args[1]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	shots, err := loadShots(db, season, analyzeCSV)
	if err != nil {
		return err
	}
	sel := aggregator.SelectorFor(analyzePlayer, analyzeTeam)
	contextJSON, err := buildHeatmapContext(season, sel, shots)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, question)
}

// buildHeatmapContext serialises the selection's buckets and totals into
// compact JSON.
func buildHeatmapContext(season model.Season, sel aggregator.Selector, shots []model.JoinedShot) (string, error) {
	buckets := aggregator.Aggregate(shots, sel)

	var fga, fgm, tpm int
	for _, b := range buckets {
		fga += b.FGA
		fgm += b.FGM
		tpm += b.ThreePM
	}

	subject := sel.Subject()
	if subject == "" {
		subject = "league"
	}
	doc := map[string]interface{}{
		"season":  season.Label(),
		"subject": subject,
		"totals": map[string]interface{}{
			"fga": fga,
			"fgm": fgm,
			"3pm": tpm,
			"efg": aggregator.EffectiveFGPct(fgm, tpm, fga),
		},
		"buckets": buckets,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		// Provide a cleaner error message for common API errors.
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}

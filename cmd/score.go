package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/pagemeta"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/julienpequegnot/imagepick/internal/scorer"
	"github.com/julienpequegnot/imagepick/internal/selector"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <record-id>",
	Short: "Explain candidate scores for a record",
	Long:  `Ranks every image candidate of a stored record and prints the per-signal score breakdown.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var scoreScrape bool

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().BoolVar(&scoreScrape, "scrape", false, "Include candidates from the record's page metadata")
}

func runScore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record ID: %s", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	r, err := record.NewRepository(db).Get(id)
	if err != nil {
		return fmt.Errorf("record not found: %d", id)
	}
	rec := r.Content

	var pages *pagemeta.Fetcher
	if scoreScrape {
		pages = newPageFetcher(cfg)
	}
	meta := scrapeMeta(context.Background(), pages, &rec, logger)

	relevance := scorer.NewRelevanceScorer(cfg.Weights())
	sel := newSelector(cfg, nil, logger)
	opts := sel.Options()
	opts.UseCache = false

	ranked := sel.Rank(&rec, meta)
	result := sel.SelectWithOptions(&rec, meta, opts)
	contextTokens := selector.ContextTokens(&rec)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	acceptedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

	fmt.Println(titleStyle.Render(rec.Title))
	fmt.Printf("%s %s\n", labelStyle.Render("Tokens:"), strings.Join(contextTokens.Sorted(), " "))
	fmt.Printf("%s %.3f\n\n", labelStyle.Render("Threshold:"), opts.Threshold)

	if len(ranked) == 0 {
		fmt.Println("No image candidates.")
	} else {
		fmt.Println(headerStyle.Render(fmt.Sprintf(" %-3s %-6s %-6s %-6s %-6s %-6s  %-16s %s", "#", "URL", "DESC", "KW", "RES", "TOTAL", "PROVENANCE", "IMAGE")))
		fmt.Println(strings.Repeat("─", 100))
		for i, c := range ranked {
			b := relevance.Explain(c.ImageCandidate, contextTokens, rec.Keywords)
			line := fmt.Sprintf(" %-3d %-6.3f %-6.3f %-6.3f %-6.3f %-6.3f  %-16s %s",
				i+1, b.URL, b.Description, b.Keywords, b.Resolution, b.Total, c.Provenance, truncate(c.URL, 60))
			if c.URL == result.ImageURL && result.Reason == content.ReasonScoredMatch {
				line = acceptedStyle.Render(line + "  ✓")
			}
			fmt.Println(line)
		}
	}

	fmt.Printf("\n%s %s\n", labelStyle.Render("Selected:"), result.ImageURL)
	fmt.Printf("%s %s", labelStyle.Render("Reason:"), result.Reason)
	if result.Message != "" {
		fmt.Printf(" (%s)", result.Message)
	}
	fmt.Println()

	return nil
}

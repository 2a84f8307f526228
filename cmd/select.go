package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/pagemeta"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/julienpequegnot/imagepick/internal/selector"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick preview images",
	Long: `Picks the preview image for stored records that have none yet, or for a
single JSON record given with --file. Results are printed as JSON for --file.`,
	RunE: runSelect,
}

var (
	selectFile      string
	selectScrape    bool
	selectNoCache   bool
	selectThreshold float64
	selectLimit     int
)

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().StringVarP(&selectFile, "file", "f", "", "Select for a JSON content record file instead of stored records")
	selectCmd.Flags().BoolVar(&selectScrape, "scrape", false, "Fetch each record's page for og/twitter/img metadata")
	selectCmd.Flags().BoolVar(&selectNoCache, "no-cache", false, "Bypass the selection cache")
	selectCmd.Flags().Float64Var(&selectThreshold, "threshold", -1, "Minimum score for a scored match (negative = use config)")
	selectCmd.Flags().IntVarP(&selectLimit, "limit", "l", 100, "Maximum stored records to process")
}

func runSelect(cmd *cobra.Command, args []string) error {
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

	sel := newSelector(cfg, db, logger)
	opts := sel.Options()
	if selectNoCache {
		opts.UseCache = false
	}
	if selectThreshold >= 0 {
		opts.Threshold = selectThreshold
	}

	var pages *pagemeta.Fetcher
	if selectScrape {
		pages = newPageFetcher(cfg)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if selectFile != "" {
		data, err := os.ReadFile(selectFile)
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		var meta *content.PageMeta
		if rec, err := content.Decode(data); err == nil {
			meta = scrapeMeta(ctx, pages, rec, logger)
		}

		result := sel.SelectJSON(data, meta, opts)
		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	counts, err := selectStored(ctx, sel, opts, record.NewRepository(db), pages, selectLimit, logger)
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		fmt.Println("No records without a preview image. Run 'imagepick fetch' or 'imagepick import' first.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fmt.Println(headerStyle.Render(reasonSummary(counts)))
	for _, step := range append([]content.Reason{content.ReasonScoredMatch}, selector.FallbackOrder()...) {
		if n := counts[step]; n > 0 {
			fmt.Printf("  %-28s %d\n", step, n)
		}
	}
	if !opts.UseCache {
		fmt.Println("\nCache bypassed: results were not stored.")
	}

	return nil
}

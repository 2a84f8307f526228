package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/pagemeta"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run in daemon mode",
	Long:  `Runs imagepick in the background, periodically fetching new records and picking their preview images.`,
	RunE:  runDaemon,
}

var (
	daemonInterval int
	daemonOnce     bool
	daemonScrape   bool
)

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().IntVar(&daemonInterval, "interval", 0, "Override interval in hours (0 = use config)")
	daemonCmd.Flags().BoolVar(&daemonOnce, "once", false, "Run once and exit")
	daemonCmd.Flags().BoolVar(&daemonScrape, "scrape", false, "Fetch page metadata while selecting")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	interval := cfg.Daemon.IntervalHours
	if daemonInterval > 0 {
		interval = daemonInterval
	}
	if interval < 1 {
		interval = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Imagepick daemon starting (interval: %d hours)\n", interval)

	if err := runPipeline(ctx, cfg, logger); err != nil {
		fmt.Printf("Pipeline error: %v\n", err)
	}

	if daemonOnce {
		fmt.Println("Single run complete.")
		return nil
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Hour)
	defer ticker.Stop()

	fmt.Printf("Daemon running. Next run in %d hours. Press Ctrl+C to stop.\n", interval)

	for {
		select {
		case <-ticker.C:
			fmt.Printf("\n[%s] Running scheduled pipeline...\n", time.Now().Format("2006-01-02 15:04:05"))
			if err := runPipeline(ctx, cfg, logger); err != nil {
				fmt.Printf("Pipeline error: %v\n", err)
			}
			fmt.Printf("Next run in %d hours.\n", interval)

		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("→ Fetching new records...")
	newRecords, err := fetchSources(ctx, cfg, db, cfg.Fetch.Concurrency)
	if err != nil {
		return err
	}
	fmt.Printf("  Fetched %d new records\n", newRecords)

	fmt.Println("→ Selecting preview images...")
	var pages *pagemeta.Fetcher
	if daemonScrape {
		pages = newPageFetcher(cfg)
	}

	sel := newSelector(cfg, db, logger)
	counts, err := selectStored(ctx, sel, sel.Options(), record.NewRepository(db), pages, 0, logger)
	if err != nil {
		return err
	}
	fmt.Printf("  %s\n", reasonSummary(counts))

	fmt.Println("→ Pipeline complete")
	return nil
}

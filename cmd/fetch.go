package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/feed"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/julienpequegnot/imagepick/internal/source"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch new records from all sources",
	Long:  `Downloads feed items from all active sources and stores them as content records.`,
	RunE:  runFetch,
}

var fetchConcurrency int

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().IntVarP(&fetchConcurrency, "concurrency", "c", 0, "Number of concurrent fetches (0 = use config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	concurrency := cfg.Fetch.Concurrency
	if fetchConcurrency > 0 {
		concurrency = fetchConcurrency
	}

	total, err := fetchSources(cmd.Context(), cfg, db, concurrency)
	if err != nil {
		return err
	}

	fmt.Printf("\nTotal: %d new records fetched\n", total)
	return nil
}

// fetchSources stores new items from every active source and returns how
// many records were added.
func fetchSources(ctx context.Context, cfg *config.Config, db *database.DB, concurrency int) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if concurrency < 1 {
		concurrency = 1
	}

	srcRepo := source.NewRepository(db)
	recRepo := record.NewRepository(db)

	sources, err := srcRepo.List()
	if err != nil {
		return 0, err
	}

	if len(sources) == 0 {
		fmt.Println("No sources configured. Add some with 'imagepick add <url>'")
		return 0, nil
	}

	fetcher := feed.NewFetcher(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, cfg.Fetch.UserAgent)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	var mu sync.Mutex
	totalNew := 0

	for _, src := range sources {
		if src.FeedURL == "" {
			fmt.Printf("Skipping %s (no feed URL)\n", src.Name)
			continue
		}

		wg.Add(1)
		go func(s source.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fmt.Printf("Fetching %s...\n", s.Name)

			items, err := fetcher.FetchFeed(ctx, s.FeedURL, s.Category)
			if err != nil {
				fmt.Printf("  Error: %v\n", err)
				return
			}

			newCount := 0
			for _, item := range items {
				exists, _ := recRepo.Exists(item.Record.SourceURL)
				if exists {
					continue
				}

				published := item.PublishedAt
				if _, err := recRepo.Upsert(&s.ID, item.Record, &published); err != nil {
					fmt.Printf("  Failed to save: %s\n", item.Record.Title)
					continue
				}
				newCount++
			}

			srcRepo.UpdateLastFetched(s.ID)

			mu.Lock()
			totalNew += newCount
			mu.Unlock()

			fmt.Printf("  %s: %d new records\n", s.Name, newCount)
		}(src)
	}

	wg.Wait()
	return totalNew, nil
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/feed"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <site-url>...",
	Short: "Find the feed URL of sites",
	Long:  `Looks for RSS/Atom feeds on each site without adding it as a source.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fetcher := feed.NewFetcher(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, cfg.Fetch.UserAgent)

	found := 0
	for _, siteURL := range args {
		if !strings.HasPrefix(siteURL, "http") {
			siteURL = "https://" + siteURL
		}

		feedURL, err := fetcher.DiscoverFeed(context.Background(), siteURL)
		if err != nil {
			fmt.Printf("%s\n  → %v\n", siteURL, err)
			continue
		}
		fmt.Printf("%s\n  → %s\n", siteURL, feedURL)
		found++
	}

	fmt.Printf("\nFound %d of %d feeds\n", found, len(args))
	if found > 0 {
		fmt.Println("Run 'imagepick add <url>' to start collecting records.")
	}
	return nil
}

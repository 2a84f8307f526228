package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/feed"
	"github.com/julienpequegnot/imagepick/internal/source"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a site or feed to collect records from",
	Long:  `Add a site URL or feed URL to the list of sources. The category picks the placeholder used when no image fits.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var (
	addName     string
	addCategory string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "Custom name for the source")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Content category (news, videos, products, ...)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	siteURL := args[0]
	if !strings.HasPrefix(siteURL, "http") {
		siteURL = "https://" + siteURL
	}

	parsed, err := url.Parse(siteURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	name := addName
	if name == "" {
		name = parsed.Host
	}

	fetcher := feed.NewFetcher(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, cfg.Fetch.UserAgent)

	fmt.Printf("Discovering feed for %s...\n", siteURL)
	feedURL, err := fetcher.DiscoverFeed(context.Background(), siteURL)
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
		fmt.Println("Adding without feed URL - you may need to add it manually")
	} else {
		fmt.Printf("Found feed: %s\n", feedURL)
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := source.NewRepository(db)
	src, err := repo.Add(siteURL, name, feedURL, strings.ToLower(strings.TrimSpace(addCategory)))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("source already exists: %s", siteURL)
		}
		return err
	}

	fmt.Printf("\nAdded: %s (ID: %d)\n", src.Name, src.ID)
	fmt.Println("\nRun 'imagepick fetch' to download records")

	return nil
}

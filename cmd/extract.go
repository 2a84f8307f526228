package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <page-url>",
	Short: "Extract image metadata from a page",
	Long:  `Fetches a page and prints its og:image, twitter:image and <img> candidates as the selector sees them.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	meta, err := newPageFetcher(cfg).FetchMeta(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to extract metadata: %w", err)
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	orNone := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return urlStyle.Render(s)
	}

	fmt.Printf("%s %s\n", labelStyle.Render("og:image:     "), orNone(meta.OGImage))
	fmt.Printf("%s %s\n", labelStyle.Render("twitter:image:"), orNone(meta.TwitterImage))
	fmt.Printf("\n%s %d\n", labelStyle.Render("IMAGES:"), len(meta.Images))

	for _, img := range meta.Images {
		fmt.Printf("  • %s", img.URL)
		if img.Width > 0 && img.Height > 0 {
			fmt.Printf(" (%dx%d)", img.Width, img.Height)
		}
		fmt.Println()
		if img.AltText != "" {
			fmt.Printf("    alt: %s\n", truncate(img.AltText, 80))
		}
		if img.Caption != "" {
			fmt.Printf("    caption: %s\n", truncate(img.Caption, 80))
		}
	}

	return nil
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Show details of a record",
	Long:  `Display a record's metadata, image candidates, fallbacks and selected preview image.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record ID: %s", args[0])
	}

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

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	divider := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("━", 70))

	fmt.Println(divider)
	fmt.Println(titleStyle.Render(rec.Title))
	fmt.Println(divider)

	if r.SourceName != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("Source:"), valueStyle.Render(r.SourceName))
	}
	if rec.Category != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("Category:"), valueStyle.Render(rec.Category))
	}
	if r.PublishedAt != nil {
		fmt.Printf("%s %s\n", labelStyle.Render("Published:"), valueStyle.Render(r.PublishedAt.Format("2006-01-02 15:04")))
	}
	if len(rec.Keywords) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Keywords:"), valueStyle.Render(strings.Join(rec.Keywords, ", ")))
	}
	fmt.Printf("%s %s\n", labelStyle.Render("URL:"), urlStyle.Render(rec.SourceURL))

	if len(rec.ImageCandidates) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("CANDIDATES:"))
		for _, c := range rec.ImageCandidates {
			fmt.Printf("  • %s", c.URL)
			if c.Width > 0 && c.Height > 0 {
				fmt.Printf(" (%dx%d)", c.Width, c.Height)
			}
			fmt.Println()
			if c.AltText != "" {
				fmt.Printf("    alt: %s\n", c.AltText)
			}
			if c.Caption != "" {
				fmt.Printf("    caption: %s\n", c.Caption)
			}
		}
	}

	if rec.FallbackImages.Primary != "" || rec.FallbackImages.Secondary != "" || rec.LegacyThumbnail != "" {
		fmt.Printf("\n%s\n", labelStyle.Render("FALLBACKS:"))
		if rec.FallbackImages.Primary != "" {
			fmt.Printf("  primary:   %s\n", rec.FallbackImages.Primary)
		}
		if rec.FallbackImages.Secondary != "" {
			fmt.Printf("  secondary: %s\n", rec.FallbackImages.Secondary)
		}
		if rec.LegacyThumbnail != "" {
			fmt.Printf("  thumbnail: %s\n", rec.LegacyThumbnail)
		}
	}

	fmt.Printf("\n%s\n", labelStyle.Render("PREVIEW IMAGE:"))
	if r.Selection == nil {
		fmt.Println("  (none yet) run 'imagepick select'")
		return nil
	}
	fmt.Printf("  %s\n", urlStyle.Render(r.Selection.ImageURL))
	fmt.Printf("  reason: %s", r.Selection.Reason)
	if r.Selection.Reason.IsFallback() {
		fmt.Println()
	} else {
		fmt.Printf("  score: %.3f  provenance: %s\n", r.Selection.Score, r.Selection.Provenance)
	}
	if r.Selection.Message != "" {
		fmt.Printf("  %s\n", r.Selection.Message)
	}

	return nil
}

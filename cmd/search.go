package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by title and keywords",
	Long:  `Full-text search across all record titles and keywords.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum results to show")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := search.NewRepository(db).Search(query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for '%s'\n", query)
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	snippetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	fmt.Printf("\n%s '%s' (%d results)\n\n", titleStyle.Render("SEARCH:"), query, len(results))

	for _, r := range results {
		fmt.Printf("%s %s\n", idStyle.Render(fmt.Sprintf("[%d]", r.RecordID)), r.Title)
		if r.Category != "" {
			fmt.Printf("    %s", categoryStyle.Render(r.Category))
		} else {
			fmt.Print("   ")
		}
		if r.ImageURL != "" {
			fmt.Printf(" • %s", r.ImageURL)
		}
		fmt.Println()

		if r.Snippet != "" {
			snippet := strings.ReplaceAll(r.Snippet, "<b>", "")
			snippet = strings.ReplaceAll(snippet, "</b>", "")
			fmt.Printf("    %s\n", snippetStyle.Render(snippet))
		}
		fmt.Println()
	}

	return nil
}

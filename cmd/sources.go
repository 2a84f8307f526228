package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/source"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List sources",
	Long:  `Display all feeds records are collected from.`,
	RunE:  runSources,
}

var sourcesRemove string

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.Flags().StringVar(&sourcesRemove, "remove", "", "Deactivate the source with this ID")
}

func runSources(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := source.NewRepository(db)

	if sourcesRemove != "" {
		id, err := strconv.ParseInt(sourcesRemove, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid source ID: %s", sourcesRemove)
		}
		if err := repo.Deactivate(id); err != nil {
			return err
		}
		fmt.Printf("Deactivated source %d\n", id)
		return nil
	}

	sources, err := repo.List()
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Println("No sources configured. Add some with 'imagepick add <url>'")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-4s  %-25s  %-10s  %s", "ID", "NAME", "CATEGORY", "FEED")))
	fmt.Println(strings.Repeat("─", 90))

	for _, s := range sources {
		feedURL := s.FeedURL
		if feedURL == "" {
			feedURL = "(none)"
		}
		category := s.Category
		if category == "" {
			category = "-"
		}

		fmt.Printf(" %s  %s  %s  %s\n",
			idStyle.Render(fmt.Sprintf("%-4d", s.ID)),
			nameStyle.Render(fmt.Sprintf("%-25s", truncate(s.Name, 25))),
			categoryStyle.Render(fmt.Sprintf("%-10s", truncate(category, 10))),
			urlStyle.Render(feedURL),
		)
	}

	return nil
}

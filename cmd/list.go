package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	Long:  `List stored content records with their selected preview image, newest first.`,
	RunE:  runList,
}

var (
	listTop        int
	listPage       int
	listCategory   string
	listUnselected bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listTop, "top", "n", 20, "Number of records to show")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page of results")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show records in this category")
	listCmd.Flags().BoolVar(&listUnselected, "unselected", false, "Only show records without a preview image")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	page := listPage
	if page < 1 {
		page = 1
	}

	repo := record.NewRepository(db)
	records, err := repo.List(record.ListFilter{
		Category:   listCategory,
		Unselected: listUnselected,
		Limit:      listTop,
		Offset:     (page - 1) * listTop,
	})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No records found. Run 'imagepick fetch' or 'imagepick import' first.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	reasonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	fallbackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-4s  %-12s  %-10s  %-40s  %s", "#", "REASON", "CATEGORY", "TITLE", "IMAGE")))
	fmt.Println(strings.Repeat("─", 120))

	for _, r := range records {
		reason := reasonStyle.Render(fmt.Sprintf("%-12s", "-"))
		image := ""
		if r.Selection != nil {
			label := "scored"
			style := reasonStyle
			if r.Selection.Reason.IsFallback() {
				label = "fallback"
				style = fallbackStyle
			}
			reason = style.Render(fmt.Sprintf("%-12s", label))
			image = r.Selection.ImageURL
		}

		category := r.Content.Category
		if category == "" {
			category = "-"
		}

		fmt.Printf(" %s  %s  %s  %-40s  %s\n",
			idStyle.Render(fmt.Sprintf("%-4d", r.ID)),
			reason,
			categoryStyle.Render(fmt.Sprintf("%-10s", truncate(category, 10))),
			truncate(r.Content.Title, 40),
			truncate(image, 50),
		)
	}

	return nil
}

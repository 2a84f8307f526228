package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/database"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize imagepick configuration and database",
	Long: `Creates the imagepick home (~/.imagepick or $IMAGEPICK_HOME) with config.yaml
and the SQLite database, then prints the selection settings in effect.

An existing config.yaml is kept unless --force is given.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml with defaults")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, created, err := setupHome(initForce)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("Wrote config to %s\n", config.Path())
	} else {
		fmt.Printf("Keeping existing config at %s (use --force to reset)\n", config.Path())
	}
	fmt.Printf("Database ready at %s\n\n", config.DBPath())

	printSettings(cfg)

	fmt.Println("\nNext steps:")
	fmt.Println("  imagepick add <site-url>       Add a feed to collect records from")
	fmt.Println("  imagepick import <file.json>   Import content records")
	fmt.Println("  imagepick select               Pick preview images")

	return nil
}

// setupHome creates the home directory and database and returns the config
// in effect. created is false when an existing config.yaml was kept.
func setupHome(force bool) (*config.Config, bool, error) {
	if err := os.MkdirAll(config.Dir(), 0755); err != nil {
		return nil, false, fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		cfg     *config.Config
		created bool
	)
	if config.Exists() && !force {
		loaded, err := config.Load()
		if err != nil {
			return nil, false, fmt.Errorf("failed to read existing config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if err := config.Save(cfg); err != nil {
			return nil, false, fmt.Errorf("failed to save config: %w", err)
		}
		created = true
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return nil, false, fmt.Errorf("failed to create database: %w", err)
	}
	db.Close()

	return cfg, created, nil
}

func printSettings(cfg *config.Config) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	w := cfg.Weights()
	fmt.Println(headerStyle.Render("SELECTION"))
	fmt.Printf("%s %.3f\n", labelStyle.Render("Threshold:      "), cfg.Selection.Threshold)
	fmt.Printf("%s url %.2f, description %.2f, keywords %.2f\n", labelStyle.Render("Weights:        "), w.URL, w.Description, w.Keywords)
	fmt.Printf("%s +%.2f above %d pixels\n", labelStyle.Render("Resolution:     "), w.Resolution, w.MinPixels)
	fmt.Printf("%s cache %t, persisted %t\n", labelStyle.Render("Caching:        "), cfg.Selection.UseCache, cfg.Selection.PersistCache)

	placeholders := cfg.SelectorPlaceholders()
	fmt.Printf("\n%s\n", headerStyle.Render("PLACEHOLDERS"))
	categories := make([]string, 0, len(placeholders.Categories))
	for category := range placeholders.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", category)), placeholders.Categories[category])
	}
	fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", "(default)")), placeholders.Default)
}

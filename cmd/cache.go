package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/selection"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the selection cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show selection cache statistics",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached selection",
	Long:  `Clears the selection cache. Records are selected again on the next 'imagepick select'.`,
	RunE:  runCacheClear,
}

var cacheKeys bool

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	cacheStatsCmd.Flags().BoolVar(&cacheKeys, "keys", false, "List cached keys")
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := selection.NewRepository(db)
	sel := newSelector(cfg, db, newLogger(cfg))

	total, err := repo.Count()
	if err != nil {
		return err
	}
	byReason, err := repo.CountByReason()
	if err != nil {
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Println(headerStyle.Render("SELECTION CACHE"))
	fmt.Printf("%s %d\n", labelStyle.Render("Persisted entries:"), total)
	fmt.Printf("%s %d\n", labelStyle.Render("In-process entries:"), sel.CacheStats().Size)
	if !cfg.Selection.PersistCache {
		fmt.Println(labelStyle.Render("persist_cache is off: new selections are not stored."))
	}

	reasons := make([]string, 0, len(byReason))
	for r := range byReason {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Printf("  %-28s %d\n", r, byReason[content.Reason(r)])
	}

	if cacheKeys {
		keys, err := repo.Keys()
		if err != nil {
			return err
		}
		fmt.Println()
		for _, k := range keys {
			fmt.Println(k)
		}
	}

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := selection.NewRepository(db)
	before, err := repo.Count()
	if err != nil {
		return err
	}

	// The selector only reaches the table through its mirror.
	if cfg.Selection.PersistCache {
		err = newSelector(cfg, db, newLogger(cfg)).ClearCache()
	} else {
		err = repo.Clear()
	}
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Printf("Cleared %d cached selections.\n", before)
	return nil
}

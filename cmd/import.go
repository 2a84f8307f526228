package cmd

import (
	"fmt"
	"os"

	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import content records from JSON",
	Long:  `Stores a JSON array (or single object) of content records. Records without a sourceUrl are skipped.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var importCategory string

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importCategory, "category", "c", "", "Category for records that have none")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	records, err := content.DecodeAll(data)
	if err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := record.NewRepository(db)
	imported, skipped := 0, 0
	for i, rec := range records {
		if rec.Category == "" {
			rec.Category = importCategory
		}
		if _, err := repo.Upsert(nil, rec, nil); err != nil {
			fmt.Printf("  Skipping record %d: %v\n", i, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d records", imported)
	if skipped > 0 {
		fmt.Printf(", skipped %d", skipped)
	}
	fmt.Println()
	fmt.Println("\nRun 'imagepick select' to pick preview images")

	return nil
}

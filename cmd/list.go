package cmd

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vaultdedup/internal/models"
	"vaultdedup/internal/storage"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the duplicate groups from the last scan",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show one category (exact|perceptual|name)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	analysis, err := store.LatestAnalysis()
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Println("No analysis stored yet. Run 'vaultdedup scan <folder>' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load analysis: %w", err)
	}

	files, err := store.GetAllFiles()
	if err != nil {
		return fmt.Errorf("failed to load files: %w", err)
	}
	byID := make(map[string]*models.FileRecord, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	shown := 0
	for _, g := range analysis.Groups {
		if listCategory != "" && string(g.Category) != listCategory {
			continue
		}
		shown++

		fmt.Printf("%s  (%s, similarity %.1f%%", g.ID, categoryLabel(g.Category), g.SimilarityScore*100)
		if g.PotentialSavingsBytes > 0 {
			fmt.Printf(", reclaimable %s", humanize.Bytes(uint64(g.PotentialSavingsBytes)))
		}
		fmt.Println(")")

		for i, id := range g.Members {
			marker := " "
			if i == 0 {
				marker = "*" // implicit keeper for savings accounting
			}
			if rec, ok := byID[id]; ok {
				extra := ""
				if rec.HasExif {
					extra = "  [exif]"
				}
				fmt.Printf("  %s %-40s %10s%s\n", marker, rec.Name, humanize.Bytes(uint64(rec.SizeBytes)), extra)
			} else {
				fmt.Printf("  %s %s (no longer in store)\n", marker, id)
			}
		}
		fmt.Println()
	}

	if shown == 0 {
		fmt.Println("No duplicate groups found.")
		return nil
	}
	fmt.Printf("%d groups, %d duplicate files, potential savings %s\n",
		shown, analysis.TotalDuplicateFiles, humanize.Bytes(uint64(analysis.PotentialSavingsBytes)))
	return nil
}

func categoryLabel(c models.GroupCategory) string {
	switch c {
	case models.CategoryExact:
		return "exact duplicates"
	case models.CategoryPerceptualSimilar:
		return "visually similar"
	case models.CategoryNameSimilar:
		return "similar names"
	default:
		return string(c)
	}
}

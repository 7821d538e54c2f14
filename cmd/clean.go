package cmd

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vaultdedup/internal/fileutil"
	"vaultdedup/internal/match"
	"vaultdedup/internal/models"
	"vaultdedup/internal/storage"
)

var (
	cleanStrategy string
	cleanCategory string
	dryRun        bool
	moveTo        string
	permanent     bool
	noConfirm     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Apply a retention strategy and remove the other copies",
	Long: `Apply a retention strategy to the exact and visually-similar groups
of the last analysis and remove every member it does not keep.

Name-similar groups are never touched: their members are distinct
content and only flagged for manual review.

Strategies:
  newest    keep the most recently added member
  oldest    keep the earliest added member
  largest   keep the biggest member
  smallest  keep the smallest member

Example:
  vaultdedup clean --strategy=newest          # Move losers to trash
  vaultdedup clean --strategy=largest --dry-run
  vaultdedup clean --permanent                # Delete instead of trashing
  vaultdedup clean --move-to=./dupes          # Quarantine instead`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanStrategy, "strategy", "newest", "Retention strategy (newest|oldest|largest|smallest)")
	cleanCmd.Flags().StringVar(&cleanCategory, "category", "", "Only clean one category (exact|perceptual)")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without removing")
	cleanCmd.Flags().StringVar(&moveTo, "move-to", "", "Move duplicates to this folder instead of trash")
	cleanCmd.Flags().BoolVar(&permanent, "permanent", false, "Delete permanently instead of moving to trash")
	cleanCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	strategy := models.RetentionStrategy(cleanStrategy)
	if !models.ValidRetentionStrategy(strategy) {
		return fmt.Errorf("unknown strategy %q (want newest|oldest|largest|smallest)", cleanStrategy)
	}

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

	policy := match.NewRetentionPolicy(files)

	var toRemove []*models.FileRecord
	for _, g := range analysis.Groups {
		if g.Category == models.CategoryNameSimilar {
			continue
		}
		if cleanCategory != "" && string(g.Category) != cleanCategory {
			continue
		}
		decision, err := policy.SelectForCleanup(g, strategy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping group %s: %v\n", g.ID, err)
			continue
		}
		for _, id := range decision.DeleteFileIDs {
			rec, ok := byID[id]
			if !ok {
				continue
			}
			// Verify the file still exists before promising to remove it.
			if _, err := os.Stat(rec.Path); err == nil {
				toRemove = append(toRemove, rec)
			}
		}
	}

	if len(toRemove) == 0 {
		fmt.Println("Nothing to remove.")
		return nil
	}

	var totalSize int64
	for _, rec := range toRemove {
		totalSize += rec.SizeBytes
	}

	var action string
	switch {
	case moveTo != "":
		action = fmt.Sprintf("move to %s", moveTo)
	case permanent:
		action = "permanently delete"
	default:
		action = "move to trash"
	}

	fmt.Printf("Strategy %q will %s %d files (%s)\n\n", strategy, action, len(toRemove), humanize.Bytes(uint64(totalSize)))

	if dryRun {
		for _, rec := range toRemove {
			fmt.Printf("  %s\n", rec.Path)
		}
		fmt.Println()
		fmt.Println("(Dry run - no files were modified)")
		return nil
	}

	if !noConfirm {
		fmt.Printf("Are you sure you want to %s %d files? [y/N]: ", action, len(toRemove))
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var processed, failed int
	for _, rec := range toRemove {
		var err error
		switch {
		case moveTo != "":
			err = fileutil.MoveFile(rec.Path, moveTo)
		case permanent:
			err = os.Remove(rec.Path)
		default:
			err = fileutil.MoveToTrash(rec.Path)
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove %s: %v\n", rec.Path, err)
			failed++
			continue
		}
		processed++
		store.DeleteFile(rec.ID)
	}

	fmt.Println()
	fmt.Printf("Removed %d files, reclaimed %s\n", processed, humanize.Bytes(uint64(totalSize)))
	if failed > 0 {
		fmt.Printf("Failed: %d files\n", failed)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vaultdedup/internal/hash"
	"vaultdedup/internal/match"
	"vaultdedup/internal/models"
	"vaultdedup/internal/scan"
	"vaultdedup/internal/storage"
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder...]",
	Short: "Scan folders and analyze them for duplicates",
	Long: `Scan one or more folders, load their files as vault records and run
the three duplicate-detection passes (exact content, perceptual image
similarity, name similarity). The resulting report is stored so that
list, clean and serve can work from it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	scanner := scan.NewScanner(
		scan.WithWorkers(workers),
		scan.WithProgress(func(scanned, total int, _ string) {
			fmt.Printf("\rReading files... %d/%d", scanned, total)
		}),
	)

	records, err := scanner.ScanFolders(args)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	fmt.Printf("\rRead %d files.%s\n", len(records), "          ")

	analyzer := match.NewAnalyzer(
		match.WithWorkers(workers),
		match.WithGridSize(gridSize),
		match.WithPerceptualThreshold(perceptualThreshold),
		match.WithNameThreshold(nameThreshold),
	)
	analysis, err := analyzer.Analyze(ctx, records)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	hashes := make([]string, len(records))
	for i, rec := range records {
		hashes[i] = string(hash.HashContent(rec.Content))
	}
	if err := store.SaveFiles(records, hashes); err != nil {
		return fmt.Errorf("failed to save files: %w", err)
	}
	runID, err := store.SaveAnalysis(args[0], len(records), analysis)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	exact, perceptual, name := 0, 0, 0
	for _, g := range analysis.Groups {
		switch g.Category {
		case models.CategoryExact:
			exact++
		case models.CategoryPerceptualSimilar:
			perceptual++
		case models.CategoryNameSimilar:
			name++
		}
	}

	fmt.Println()
	fmt.Printf("Analysis %s\n", runID)
	fmt.Printf("  Exact groups:      %d\n", exact)
	fmt.Printf("  Perceptual groups: %d\n", perceptual)
	fmt.Printf("  Name groups:       %d\n", name)
	fmt.Printf("  Duplicate files:   %d\n", analysis.TotalDuplicateFiles)
	fmt.Printf("  Potential savings: %s\n", humanize.Bytes(uint64(analysis.PotentialSavingsBytes)))
	if len(analysis.Groups) > 0 {
		fmt.Println()
		fmt.Println("Run 'vaultdedup list' to inspect the groups.")
	}
	return nil
}

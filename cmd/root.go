package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath              string
	workers             int
	gridSize            int
	perceptualThreshold float64
	nameThreshold       float64
)

var rootCmd = &cobra.Command{
	Use:   "vaultdedup",
	Short: "Find and manage duplicate files in a personal vault",
	Long: `vaultdedup detects redundant files in a personal file vault:
byte-identical copies, visually near-identical images and confusingly
named files. It only recommends which copies to discard; deletions run
through the clean command after explicit confirmation.

Example usage:
  vaultdedup scan ./vault          # Scan a folder and analyze duplicates
  vaultdedup list                  # Show the duplicate groups found
  vaultdedup clean --dry-run       # Preview what a strategy would delete
  vaultdedup clean --strategy=largest
  vaultdedup serve                 # Serve the report as a local JSON API`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	homeDir, _ := os.UserHomeDir()
	defaultDB := filepath.Join(homeDir, ".vaultdedup", "vault.db")

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Path to SQLite database")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 8, "Number of parallel workers")
	rootCmd.PersistentFlags().IntVar(&gridSize, "grid", 8, "Perceptual hash grid edge (fingerprint is grid² bits)")
	rootCmd.PersistentFlags().Float64Var(&perceptualThreshold, "perceptual-threshold", 0.85, "Perceptual similarity threshold (0-1, higher = stricter)")
	rootCmd.PersistentFlags().Float64Var(&nameThreshold, "name-threshold", 0.8, "Name similarity threshold (0-1, higher = stricter)")
}

package match

import (
	"vaultdedup/internal/hash"
	"vaultdedup/internal/models"
	"vaultdedup/internal/text"
)

// buildNameGroups partitions records by normalized-name similarity with
// the same greedy single-pass heuristic as the perceptual pass. Within
// a collected group, members sharing a content fingerprint collapse to
// their first occurrence: byte-identical copies already appear in an
// Exact group and must not be double-reported. Savings are always zero
// because distinct content cannot be safely reclaimed by name alone.
func (g *Grouper) buildNameGroups(files []*models.FileRecord, fps []hash.ContentFingerprint) []*models.DuplicateGroup {
	n := len(files)
	if n < 2 {
		return nil
	}

	assigned := make([]bool, n)
	var groups []*models.DuplicateGroup

	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}

		collected := []int{i}
		for j := i + 1; j < n; j++ {
			if assigned[j] {
				continue
			}
			if text.Similarity(files[i].Name, files[j].Name) >= g.nameThreshold {
				collected = append(collected, j)
				assigned[j] = true
			}
		}
		if len(collected) < 2 {
			continue
		}
		assigned[i] = true

		// Keep one member per distinct content fingerprint.
		seen := make(map[hash.ContentFingerprint]bool, len(collected))
		var members []int
		for _, idx := range collected {
			if seen[fps[idx]] {
				continue
			}
			seen[fps[idx]] = true
			members = append(members, idx)
		}
		if len(members) < 2 {
			continue
		}

		groups = append(groups, &models.DuplicateGroup{
			ID:                    groupID(models.CategoryNameSimilar, len(groups)+1),
			Category:              models.CategoryNameSimilar,
			Members:               memberIDs(files, members),
			SimilarityScore:       text.Similarity(files[members[0]].Name, files[members[1]].Name),
			TotalSizeBytes:        sumSizes(files, members),
			PotentialSavingsBytes: 0,
		})
	}

	return groups
}

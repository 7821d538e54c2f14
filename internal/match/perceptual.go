package match

import (
	"context"

	"vaultdedup/internal/hash"
	"vaultdedup/internal/models"
)

// buildPerceptualGroups partitions image records by average-hash
// similarity. Grouping is a single-pass greedy partition, not
// transitive clustering: each not-yet-assigned image in input order
// seeds a group and collects every later not-yet-assigned image above
// the threshold, so an image belongs to at most one group. The reported
// score is the seed's similarity to the first collected member.
//
// Pairwise O(n²) comparison is intentional at vault scale; the context
// is checked once per outer iteration so interactive callers can bail.
func (g *Grouper) buildPerceptualGroups(ctx context.Context, files []*models.FileRecord) ([]*models.DuplicateGroup, error) {
	var imageIdx []int
	for i, f := range files {
		if f.Type == models.FileTypeImage {
			imageIdx = append(imageIdx, i)
		}
	}
	if len(imageIdx) < 2 {
		return nil, nil
	}

	// Undecodable images get a nil fingerprint and drop out of this
	// pass without aborting the batch.
	fps := g.perceptualFingerprints(files, imageIdx)

	assigned := make([]bool, len(imageIdx))
	var groups []*models.DuplicateGroup

	for i := range imageIdx {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if assigned[i] || fps[i] == nil {
			continue
		}

		members := []int{imageIdx[i]}
		score := 0.0
		for j := i + 1; j < len(imageIdx); j++ {
			if assigned[j] || fps[j] == nil {
				continue
			}
			sim := hash.Similarity(fps[i], fps[j])
			if sim >= g.perceptualThreshold {
				if len(members) == 1 {
					score = sim
				}
				members = append(members, imageIdx[j])
				assigned[j] = true
			}
		}

		if len(members) < 2 {
			continue
		}
		assigned[i] = true

		total := sumSizes(files, members)
		groups = append(groups, &models.DuplicateGroup{
			ID:                    groupID(models.CategoryPerceptualSimilar, len(groups)+1),
			Category:              models.CategoryPerceptualSimilar,
			Members:               memberIDs(files, members),
			SimilarityScore:       score,
			TotalSizeBytes:        total,
			PotentialSavingsBytes: total - files[members[0]].SizeBytes,
		})
	}

	return groups, nil
}

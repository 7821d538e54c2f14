package match

import (
	"vaultdedup/internal/hash"
	"vaultdedup/internal/models"
)

// buildExactGroups buckets records by content fingerprint and turns
// every bucket of two or more into an Exact group. Savings assume the
// first member in input order is kept; equal fingerprints mean
// byte-identical content, so the score is always 1.0.
func buildExactGroups(files []*models.FileRecord, fps []hash.ContentFingerprint) []*models.DuplicateGroup {
	buckets := make(map[hash.ContentFingerprint][]int)
	var order []hash.ContentFingerprint
	for i, fp := range fps {
		if _, seen := buckets[fp]; !seen {
			order = append(order, fp)
		}
		buckets[fp] = append(buckets[fp], i)
	}

	var groups []*models.DuplicateGroup
	for _, fp := range order {
		members := buckets[fp]
		if len(members) < 2 {
			continue
		}
		total := sumSizes(files, members)
		groups = append(groups, &models.DuplicateGroup{
			ID:                    groupID(models.CategoryExact, len(groups)+1),
			Category:              models.CategoryExact,
			Members:               memberIDs(files, members),
			SimilarityScore:       1.0,
			TotalSizeBytes:        total,
			PotentialSavingsBytes: total - files[members[0]].SizeBytes,
		})
	}
	return groups
}

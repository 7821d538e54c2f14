// Package match implements the duplicate-detection engine: three
// independent passes over one ordered file list (exact content,
// perceptual image similarity, name similarity), retention decisions
// per group, and the combined analysis report.
package match

import (
	"context"
	"fmt"

	"vaultdedup/internal/hash"
	"vaultdedup/internal/models"
)

const (
	// DefaultPerceptualThreshold is the minimum bit-match ratio for two
	// images to land in one PerceptualSimilar group.
	DefaultPerceptualThreshold = 0.85
	// DefaultNameThreshold is the minimum normalized-name similarity
	// for two files to land in one NameSimilar group.
	DefaultNameThreshold = 0.8
	// DefaultWorkers bounds the fingerprint worker pool.
	DefaultWorkers = 8
)

// Grouper runs the three detection passes. It holds configuration only;
// every call is a pure function of its input, so a single Grouper is
// safe for concurrent use.
type Grouper struct {
	perceptual          *hash.PerceptualHasher
	perceptualThreshold float64
	nameThreshold       float64
	workers             int
}

// Option configures a Grouper.
type Option func(*Grouper)

// WithWorkers sets the number of parallel fingerprint workers.
func WithWorkers(n int) Option {
	return func(g *Grouper) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithGridSize sets the perceptual downsample grid edge.
func WithGridSize(n int) Option {
	return func(g *Grouper) {
		if n > 0 {
			g.perceptual = hash.NewPerceptualHasher(n)
		}
	}
}

// WithPerceptualThreshold overrides the perceptual grouping threshold.
func WithPerceptualThreshold(t float64) Option {
	return func(g *Grouper) {
		if t > 0 && t <= 1 {
			g.perceptualThreshold = t
		}
	}
}

// WithNameThreshold overrides the name grouping threshold.
func WithNameThreshold(t float64) Option {
	return func(g *Grouper) {
		if t > 0 && t <= 1 {
			g.nameThreshold = t
		}
	}
}

// NewGrouper creates a Grouper with default thresholds.
func NewGrouper(opts ...Option) *Grouper {
	g := &Grouper{
		perceptual:          hash.NewPerceptualHasher(hash.DefaultGridSize),
		perceptualThreshold: DefaultPerceptualThreshold,
		nameThreshold:       DefaultNameThreshold,
		workers:             DefaultWorkers,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FindGroups validates the batch and runs the three passes, returning
// exact, then perceptual, then name groups. Identical input always
// yields identical groups in identical order: fingerprints are computed
// into index-addressed slices and groups are emitted in first-member
// input order, so no map iteration leaks into the result.
func (g *Grouper) FindGroups(ctx context.Context, files []*models.FileRecord) ([]*models.DuplicateGroup, error) {
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	contentFPs := g.contentFingerprints(files)

	exact := buildExactGroups(files, contentFPs)

	perceptual, err := g.buildPerceptualGroups(ctx, files)
	if err != nil {
		return nil, err
	}

	name := g.buildNameGroups(files, contentFPs)

	groups := make([]*models.DuplicateGroup, 0, len(exact)+len(perceptual)+len(name))
	groups = append(groups, exact...)
	groups = append(groups, perceptual...)
	groups = append(groups, name...)
	return groups, nil
}

// groupID formats a deterministic per-category group ID.
func groupID(category models.GroupCategory, n int) string {
	return fmt.Sprintf("%s-%d", category, n)
}

// sumSizes totals the sizes of the given member indices.
func sumSizes(files []*models.FileRecord, members []int) int64 {
	var total int64
	for _, i := range members {
		total += files[i].SizeBytes
	}
	return total
}

// memberIDs maps member indices to file IDs, preserving order.
func memberIDs(files []*models.FileRecord, members []int) []string {
	ids := make([]string, len(members))
	for i, idx := range members {
		ids[i] = files[idx].ID
	}
	return ids
}

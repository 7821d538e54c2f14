package match

import (
	"context"
	"time"

	"vaultdedup/internal/models"
)

// Analyzer combines the three passes into one analysis report.
type Analyzer struct {
	grouper *Grouper
}

// NewAnalyzer creates an Analyzer; options are forwarded to its Grouper.
func NewAnalyzer(opts ...Option) *Analyzer {
	return &Analyzer{grouper: NewGrouper(opts...)}
}

// Analyze runs the passes and totals the result. NameSimilar groups are
// excluded from both totals: they represent no reclaimable space. Empty
// input is not an error and yields an empty analysis.
func (a *Analyzer) Analyze(ctx context.Context, files []*models.FileRecord) (*models.DuplicateAnalysis, error) {
	groups, err := a.grouper.FindGroups(ctx, files)
	if err != nil {
		return nil, err
	}

	analysis := &models.DuplicateAnalysis{
		Groups:      groups,
		GeneratedAt: time.Now().UTC(),
	}
	if analysis.Groups == nil {
		analysis.Groups = []*models.DuplicateGroup{}
	}
	for _, g := range groups {
		if g.Category == models.CategoryNameSimilar {
			continue
		}
		analysis.TotalDuplicateFiles += len(g.Members) - 1
		analysis.PotentialSavingsBytes += g.PotentialSavingsBytes
	}
	return analysis, nil
}

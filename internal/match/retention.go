package match

import (
	"fmt"

	"vaultdedup/internal/models"
)

// RetentionPolicy decides which member of a duplicate group to keep.
// It is built over the same record set a group was produced from.
type RetentionPolicy struct {
	byID map[string]*models.FileRecord
}

// NewRetentionPolicy indexes the records for member lookups.
func NewRetentionPolicy(files []*models.FileRecord) *RetentionPolicy {
	byID := make(map[string]*models.FileRecord, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}
	return &RetentionPolicy{byID: byID}
}

// SelectForCleanup applies a strategy to a group: keep the newest,
// oldest (by date added), largest or smallest (by size) member, ties
// broken by first occurrence in the member list. NameSimilar groups are
// a no-op with an empty delete list, since their members are distinct
// content that must never be auto-deleted.
func (p *RetentionPolicy) SelectForCleanup(group *models.DuplicateGroup, strategy models.RetentionStrategy) (*models.RetentionDecision, error) {
	if !models.ValidRetentionStrategy(strategy) {
		return nil, fmt.Errorf("unknown retention strategy %q", strategy)
	}
	if group.Category == models.CategoryNameSimilar {
		return &models.RetentionDecision{
			GroupID:       group.ID,
			DeleteFileIDs: []string{},
		}, nil
	}

	members := make([]*models.FileRecord, len(group.Members))
	for i, id := range group.Members {
		rec, ok := p.byID[id]
		if !ok {
			return nil, fmt.Errorf("group %s member %q not found in record set", group.ID, id)
		}
		members[i] = rec
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("group %s has no members", group.ID)
	}

	keep := members[0]
	for _, m := range members[1:] {
		if better(m, keep, strategy) {
			keep = m
		}
	}

	deletes := make([]string, 0, len(members)-1)
	for _, m := range members {
		if m.ID != keep.ID {
			deletes = append(deletes, m.ID)
		}
	}

	return &models.RetentionDecision{
		GroupID:       group.ID,
		KeepFileID:    keep.ID,
		DeleteFileIDs: deletes,
	}, nil
}

// better reports whether a strictly beats b under the strategy; equal
// keys keep b, preserving first occurrence.
func better(a, b *models.FileRecord, strategy models.RetentionStrategy) bool {
	switch strategy {
	case models.RetainNewest:
		return a.DateAdded.After(b.DateAdded)
	case models.RetainOldest:
		return a.DateAdded.Before(b.DateAdded)
	case models.RetainLargest:
		return a.SizeBytes > b.SizeBytes
	case models.RetainSmallest:
		return a.SizeBytes < b.SizeBytes
	default:
		return false
	}
}

package models

import (
	"errors"
	"fmt"
	"time"
)

// FileType classifies a vault entry by its media kind.
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeDocument FileType = "document"
	FileTypeOther    FileType = "other"
)

// ValidFileType reports whether t is one of the known file types.
func ValidFileType(t FileType) bool {
	switch t {
	case FileTypeImage, FileTypeVideo, FileTypeAudio, FileTypeDocument, FileTypeOther:
		return true
	default:
		return false
	}
}

// ErrMalformedRecord marks a FileRecord that violates the caller contract.
// A batch containing one is rejected whole rather than silently filtered.
var ErrMalformedRecord = errors.New("malformed file record")

// FileRecord is a vault entry as handed to the engine: metadata plus the
// fully decrypted content bytes. The engine treats it as read-only.
type FileRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path,omitempty"`
	Type         FileType  `json:"type"`
	SizeBytes    int64     `json:"size_bytes"`
	Content      []byte    `json:"-"`
	HasExif      bool      `json:"has_exif,omitempty"`
	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`
}

// Validate checks the fields the engine depends on. Empty Content is
// legal (empty files hash to a well-defined constant); a zero DateAdded
// is not, because the date-based retention strategies need it.
func (r *FileRecord) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: missing id", ErrMalformedRecord)
	case r.Name == "":
		return fmt.Errorf("%w: record %q missing name", ErrMalformedRecord, r.ID)
	case !ValidFileType(r.Type):
		return fmt.Errorf("%w: record %q has unknown type %q", ErrMalformedRecord, r.ID, r.Type)
	case r.SizeBytes < 0:
		return fmt.Errorf("%w: record %q has negative size %d", ErrMalformedRecord, r.ID, r.SizeBytes)
	case r.DateAdded.IsZero():
		return fmt.Errorf("%w: record %q missing date added", ErrMalformedRecord, r.ID)
	}
	return nil
}

// GroupCategory names the pass that produced a duplicate group.
type GroupCategory string

const (
	CategoryExact             GroupCategory = "exact"
	CategoryPerceptualSimilar GroupCategory = "perceptual"
	CategoryNameSimilar       GroupCategory = "name"
)

// DuplicateGroup is one set of files flagged as redundant by a single
// pass. Members are file IDs in input order; the first member is the
// implicit keeper for savings accounting only (actual retention is a
// separate, caller-driven decision).
type DuplicateGroup struct {
	ID                    string        `json:"id"`
	Category              GroupCategory `json:"category"`
	Members               []string      `json:"members"`
	SimilarityScore       float64       `json:"similarity_score"`
	TotalSizeBytes        int64         `json:"total_size_bytes"`
	PotentialSavingsBytes int64         `json:"potential_savings_bytes"`
}

// DuplicateAnalysis is the combined report over all three passes.
// Recomputed on demand, never persisted by the engine itself.
type DuplicateAnalysis struct {
	TotalDuplicateFiles   int               `json:"total_duplicate_files"`
	Groups                []*DuplicateGroup `json:"groups"`
	PotentialSavingsBytes int64             `json:"potential_savings_bytes"`
	GeneratedAt           time.Time         `json:"generated_at"`
}

// RetentionStrategy names the rule for picking which group member to keep.
type RetentionStrategy string

const (
	RetainNewest   RetentionStrategy = "newest"
	RetainOldest   RetentionStrategy = "oldest"
	RetainLargest  RetentionStrategy = "largest"
	RetainSmallest RetentionStrategy = "smallest"
)

// ValidRetentionStrategy reports whether s is a known strategy.
func ValidRetentionStrategy(s RetentionStrategy) bool {
	switch s {
	case RetainNewest, RetainOldest, RetainLargest, RetainSmallest:
		return true
	default:
		return false
	}
}

// RetentionDecision is the outcome of applying a strategy to a group.
// For NameSimilar groups KeepFileID is empty and DeleteFileIDs is an
// empty slice: distinct content is never auto-deleted.
type RetentionDecision struct {
	GroupID       string   `json:"group_id"`
	KeepFileID    string   `json:"keep_file_id"`
	DeleteFileIDs []string `json:"delete_file_ids"`
}

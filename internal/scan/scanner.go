// Package scan builds FileRecords from a vault directory on disk.
package scan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rwcarlsen/goexif/exif"

	"vaultdedup/internal/models"
)

// Scanner walks folders and loads file records, content included.
// Vault-scale corpora (hundreds to low thousands of files) fit in
// memory; the engine operates on the full byte content.
type Scanner struct {
	workers    int
	progressFn func(scanned, total int, current string)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets the number of parallel readers.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithProgress sets a progress callback.
func WithProgress(fn func(scanned, total int, current string)) Option {
	return func(s *Scanner) {
		s.progressFn = fn
	}
}

// NewScanner creates a Scanner.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{workers: 8}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanFolder walks a folder and returns its files as records, in walk
// order. Files that cannot be read are skipped; the record ID is the
// file path. Filesystems don't portably expose creation time, so mtime
// fills both date fields.
func (s *Scanner) ScanFolder(folder string) ([]*models.FileRecord, error) {
	var paths []string
	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk folder: %w", err)
	}
	if len(paths) == 0 {
		return nil, nil
	}

	// Read in parallel into an index-addressed slice so the record
	// order stays the deterministic walk order.
	records := make([]*models.FileRecord, len(paths))
	work := make(chan int, len(paths))
	for i := range paths {
		work <- i
	}
	close(work)

	var (
		wg      sync.WaitGroup
		scanned int64
		total   = len(paths)
	)
	workers := s.workers
	if workers > total {
		workers = total
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				rec, err := loadRecord(paths[i])
				if err == nil {
					records[i] = rec
				}
				n := atomic.AddInt64(&scanned, 1)
				if s.progressFn != nil {
					s.progressFn(int(n), total, paths[i])
				}
			}
		}()
	}
	wg.Wait()

	out := make([]*models.FileRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ScanFolders scans multiple folders in order.
func (s *Scanner) ScanFolders(folders []string) ([]*models.FileRecord, error) {
	var all []*models.FileRecord
	for _, folder := range folders {
		records, err := s.ScanFolder(folder)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func loadRecord(path string) (*models.FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	typ := ClassifyType(path)
	rec := &models.FileRecord{
		ID:           path,
		Name:         filepath.Base(path),
		Path:         path,
		Type:         typ,
		SizeBytes:    info.Size(),
		Content:      content,
		DateAdded:    info.ModTime(),
		DateModified: info.ModTime(),
	}
	if typ == models.FileTypeImage {
		rec.HasExif = hasExif(content)
	}
	return rec, nil
}

// hasExif reports whether image bytes carry EXIF metadata.
func hasExif(content []byte) bool {
	_, err := exif.Decode(bytes.NewReader(content))
	return err == nil
}

// ClassifyType maps a file extension to its media kind.
func ClassifyType(path string) models.FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff", ".tif", ".heic":
		return models.FileTypeImage
	case ".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v":
		return models.FileTypeVideo
	case ".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a":
		return models.FileTypeAudio
	case ".pdf", ".doc", ".docx", ".txt", ".md", ".rtf", ".csv",
		".xls", ".xlsx", ".ppt", ".pptx":
		return models.FileTypeDocument
	default:
		return models.FileTypeOther
	}
}

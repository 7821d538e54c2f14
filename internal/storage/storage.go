// Package storage persists scanned file metadata and analysis reports
// in SQLite, so list/clean/serve can work from the last scan.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vaultdedup/internal/models"
)

// Storage handles persistence of file records and analysis runs.
// File content is never stored, only metadata and fingerprints.
type Storage struct {
	db     *sql.DB
	dbPath string
}

// NewStorage opens (and if needed creates) the database at dbPath.
func NewStorage(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db, dbPath: dbPath}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Current schema version
const schemaVersion = 2

// migrations defines all schema migrations.
// Each migration should be idempotent (safe to run multiple times).
var migrations = []struct {
	version     int
	description string
	up          string
}{
	{
		version:     1,
		description: "Initial schema",
		up:          "", // Handled by base schema creation
	},
	{
		version:     2,
		description: "Add has_exif column for image metadata",
		up:          `ALTER TABLE files ADD COLUMN has_exif INTEGER DEFAULT 0;`,
	},
}

func (s *Storage) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		type TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		content_hash TEXT NOT NULL DEFAULT '',
		date_added TEXT NOT NULL,
		date_modified TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_files_content_hash ON files(content_hash);
	CREATE INDEX IF NOT EXISTS idx_files_name ON files(name);

	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		folder TEXT NOT NULL,
		total_files INTEGER NOT NULL,
		total_duplicate_files INTEGER NOT NULL,
		potential_savings_bytes INTEGER NOT NULL,
		generated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS groups (
		analysis_id TEXT NOT NULL,
		id TEXT NOT NULL,
		category TEXT NOT NULL,
		similarity_score REAL NOT NULL,
		total_size_bytes INTEGER NOT NULL,
		potential_savings_bytes INTEGER NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (analysis_id, id)
	);

	CREATE TABLE IF NOT EXISTS group_members (
		analysis_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		file_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (analysis_id, group_id, position)
	);
	`
	if _, err = s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := s.migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Storage) migrate() error {
	currentVersion := s.getSchemaVersion()

	for _, m := range migrations {
		if m.version <= currentVersion || m.up == "" {
			continue
		}

		// Column might already exist when the base schema was created
		// by a current binary.
		if m.version == 2 && s.columnExists("files", "has_exif") {
			s.setSchemaVersion(m.version)
			continue
		}

		if _, err := s.db.Exec(m.up); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		s.setSchemaVersion(m.version)
	}
	return nil
}

func (s *Storage) getSchemaVersion() int {
	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return 0
	}
	return version
}

func (s *Storage) setSchemaVersion(version int) {
	s.db.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, version)
}

func (s *Storage) columnExists(table, column string) bool {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?
	`, table, column).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveFiles upserts record metadata together with the content hashes
// computed for them (aligned by index; empty string when unknown).
func (s *Storage) SaveFiles(records []*models.FileRecord, contentHashes []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO files (id, name, path, type, size_bytes, content_hash, date_added, date_modified, has_exif)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		hash := ""
		if i < len(contentHashes) {
			hash = contentHashes[i]
		}
		hasExifInt := 0
		if rec.HasExif {
			hasExifInt = 1
		}
		_, err := stmt.Exec(
			rec.ID,
			rec.Name,
			rec.Path,
			string(rec.Type),
			rec.SizeBytes,
			hash,
			formatTime(rec.DateAdded),
			formatTime(rec.DateModified),
			hasExifInt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert file %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// GetAllFiles returns stored records, metadata only (no content).
func (s *Storage) GetAllFiles() ([]*models.FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, path, type, size_bytes, date_added, date_modified, has_exif
		FROM files
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var records []*models.FileRecord
	for rows.Next() {
		rec := &models.FileRecord{}
		var typ, added, modified string
		var hasExifInt int
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Path, &typ, &rec.SizeBytes, &added, &modified, &hasExifInt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec.Type = models.FileType(typ)
		rec.HasExif = hasExifInt == 1
		rec.DateAdded = parseTime(added)
		rec.DateModified = parseTime(modified)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteFile removes a file record.
func (s *Storage) DeleteFile(id string) error {
	_, err := s.db.Exec("DELETE FROM files WHERE id = ?", id)
	return err
}

// SaveAnalysis stores a run and its groups transactionally, returning
// the generated run ID.
func (s *Storage) SaveAnalysis(folder string, totalFiles int, analysis *models.DuplicateAnalysis) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO analyses (id, folder, total_files, total_duplicate_files, potential_savings_bytes, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, folder, totalFiles, analysis.TotalDuplicateFiles, analysis.PotentialSavingsBytes, formatTime(analysis.GeneratedAt))
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}

	groupStmt, err := tx.Prepare(`
		INSERT INTO groups (analysis_id, id, category, similarity_score, total_size_bytes, potential_savings_bytes, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer groupStmt.Close()

	memberStmt, err := tx.Prepare(`
		INSERT INTO group_members (analysis_id, group_id, file_id, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer memberStmt.Close()

	for pos, g := range analysis.Groups {
		if _, err := groupStmt.Exec(runID, g.ID, string(g.Category), g.SimilarityScore, g.TotalSizeBytes, g.PotentialSavingsBytes, pos); err != nil {
			return "", fmt.Errorf("failed to insert group %s: %w", g.ID, err)
		}
		for mpos, fileID := range g.Members {
			if _, err := memberStmt.Exec(runID, g.ID, fileID, mpos); err != nil {
				return "", fmt.Errorf("failed to insert member %s of group %s: %w", fileID, g.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LatestAnalysis loads the most recent run, groups in original order.
// Returns sql.ErrNoRows when no analysis has been stored yet.
func (s *Storage) LatestAnalysis() (*models.DuplicateAnalysis, error) {
	var runID, generatedAt string
	analysis := &models.DuplicateAnalysis{Groups: []*models.DuplicateGroup{}}
	err := s.db.QueryRow(`
		SELECT id, total_duplicate_files, potential_savings_bytes, generated_at
		FROM analyses
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`).Scan(&runID, &analysis.TotalDuplicateFiles, &analysis.PotentialSavingsBytes, &generatedAt)
	if err != nil {
		return nil, err
	}
	analysis.GeneratedAt = parseTime(generatedAt)

	rows, err := s.db.Query(`
		SELECT id, category, similarity_score, total_size_bytes, potential_savings_bytes
		FROM groups
		WHERE analysis_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		g := &models.DuplicateGroup{}
		var category string
		if err := rows.Scan(&g.ID, &category, &g.SimilarityScore, &g.TotalSizeBytes, &g.PotentialSavingsBytes); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.Category = models.GroupCategory(category)
		analysis.Groups = append(analysis.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range analysis.Groups {
		members, err := s.groupMembers(runID, g.ID)
		if err != nil {
			return nil, err
		}
		g.Members = members
	}
	return analysis, nil
}

func (s *Storage) groupMembers(runID, groupID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT file_id FROM group_members
		WHERE analysis_id = ? AND group_id = ?
		ORDER BY position
	`, runID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

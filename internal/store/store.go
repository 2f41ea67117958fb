package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Containers holding scoring documents. Each is a two-column table of
// id plus a JSON document, mirroring a document-store layout.
const (
	ContainerSubmissions = "submissions"
	ContainerAssessments = "assessments"
	ContainerEvaluations = "evaluations"
)

var containers = []string{
	ContainerSubmissions,
	ContainerAssessments,
	ContainerEvaluations,
}

// Store is the SQLite-backed document store for submissions, assessments,
// and evaluation records.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the container tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createContainers(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create containers: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Submissions returns the submission repository backed by this store.
func (s *Store) Submissions() *SubmissionRepo {
	return &SubmissionRepo{docs: &documents{db: s.db, container: ContainerSubmissions}}
}

// Assessments returns the assessment repository backed by this store.
func (s *Store) Assessments() *AssessmentRepo {
	return &AssessmentRepo{docs: &documents{db: s.db, container: ContainerAssessments}}
}

// Evaluations returns the evaluation repository backed by this store.
func (s *Store) Evaluations() *EvaluationRepo {
	return &EvaluationRepo{docs: &documents{db: s.db, container: ContainerEvaluations}}
}

// applyPragmas configures SQLite for optimal single-writer performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createContainers(db *sql.DB) error {
	for _, c := range containers {
		stmt := fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc TEXT NOT NULL)", c)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SCORING_DB environment variable
// 2. $XDG_DATA_HOME/scoring/scoring.db
// 3. ~/.local/share/scoring/scoring.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SCORING_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "scoring", "scoring.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

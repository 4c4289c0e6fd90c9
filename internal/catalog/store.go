// Package catalog records region summaries of finished runs in DuckDB so
// several genomes can be compared and queried after their output
// directories are gone.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/logt-kuleuven/saspector/internal/stats"
)

// Store manages a DuckDB connection holding run summaries.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// residueColumns returns the per-residue column names of unmapped_regions.
func residueColumns() []string {
	cols := make([]string, 0, stats.NumResidues)
	for r := stats.Residue(0); r < stats.NumResidues; r++ {
		cols = append(cols, "pct_"+strings.ToLower(r.Name()))
	}
	return cols
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS reference_summaries (
		prefix VARCHAR PRIMARY KEY,
		reference_path VARCHAR,
		reference_size BIGINT,
		reference_modtime TIMESTAMP,
		flanking BIGINT,
		gc_content DOUBLE,
		length BIGINT,
		mapped_regions BIGINT,
		unmapped_regions BIGINT,
		fraction_mapped DOUBLE,
		fraction_unmapped DOUBLE,
		created_at TIMESTAMP
	)`); err != nil {
		return err
	}

	var cols strings.Builder
	for _, c := range residueColumns() {
		cols.WriteString(c)
		cols.WriteString(" DOUBLE,\n\t\t")
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS unmapped_regions (
		prefix VARCHAR,
		row_index BIGINT,
		region VARCHAR,
		gc_content DOUBLE,
		length BIGINT,
		` + cols.String() + `PRIMARY KEY (prefix, row_index)
	)`)
	return err
}

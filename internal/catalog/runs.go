package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/logt-kuleuven/saspector/internal/stats"
)

// ErrRunNotFound is returned when no run is recorded for a prefix.
var ErrRunNotFound = errors.New("run not found")

// Run is the catalogued outcome of one genome.
type Run struct {
	Prefix    string
	Reference FileFingerprint
	Flanking  int
	Summary   stats.ReferenceSummary
	Unmapped  []stats.RegionSummary
	CreatedAt time.Time
}

// WriteRun records r, replacing any earlier run with the same prefix.
// Unmapped region rows are batch-inserted using the Appender API. If they
// cannot be written the run is removed again.
func (s *Store) WriteRun(r Run) error {
	if r.Prefix == "" {
		return errors.New("run prefix is empty")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	if err := s.DeleteRun(r.Prefix); err != nil {
		return err
	}

	if _, err := s.db.Exec(`INSERT INTO reference_summaries VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Prefix,
		r.Reference.Path, r.Reference.Size, r.Reference.ModTime.UTC(),
		int64(r.Flanking),
		r.Summary.GCContent, int64(r.Summary.Length),
		int64(r.Summary.NumberMappedRegions), int64(r.Summary.NumberUnmappedRegions),
		r.Summary.FractionMapped, r.Summary.FractionUnmapped,
		r.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert reference summary: %w", err)
	}

	if err := s.appendRegions(r); err != nil {
		// Leave no summary row without its regions.
		if derr := s.DeleteRun(r.Prefix); derr != nil {
			return errors.Join(err, derr)
		}
		return err
	}
	return nil
}

// appendRegions batch-inserts the unmapped region rows of r.
func (s *Store) appendRegions(r Run) error {
	if len(r.Unmapped) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "unmapped_regions")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	row := make([]driver.Value, 0, 5+stats.NumResidues)
	for i, u := range r.Unmapped {
		row = append(row[:0], r.Prefix, int64(i), u.Label, u.GCContent, int64(u.Length))
		for _, pct := range u.Composition {
			row = append(row, pct)
		}
		if err := appender.AppendRow(row...); err != nil {
			return fmt.Errorf("append unmapped region: %w", err)
		}
	}

	if err := appender.Flush(); err != nil {
		return fmt.Errorf("flush unmapped regions: %w", err)
	}
	return nil
}

// DeleteRun removes every row recorded for prefix.
func (s *Store) DeleteRun(prefix string) error {
	if _, err := s.db.Exec("DELETE FROM unmapped_regions WHERE prefix=?", prefix); err != nil {
		return fmt.Errorf("delete unmapped regions: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM reference_summaries WHERE prefix=?", prefix); err != nil {
		return fmt.Errorf("delete reference summary: %w", err)
	}
	return nil
}

// Prefixes returns every catalogued prefix in lexical order.
func (s *Store) Prefixes() ([]string, error) {
	rows, err := s.db.Query("SELECT prefix FROM reference_summaries ORDER BY prefix")
	if err != nil {
		return nil, fmt.Errorf("query prefixes: %w", err)
	}
	defer rows.Close()

	var prefixes []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan prefix: %w", err)
		}
		prefixes = append(prefixes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prefixes: %w", err)
	}
	return prefixes, nil
}

// LookupRun returns the run recorded for prefix, including its unmapped regions.
func (s *Store) LookupRun(prefix string) (*Run, error) {
	r := Run{Prefix: prefix}
	var flanking, length, mapped, unmapped int64

	err := s.db.QueryRow(`SELECT
		reference_path, reference_size, reference_modtime, flanking,
		gc_content, length, mapped_regions, unmapped_regions,
		fraction_mapped, fraction_unmapped, created_at
		FROM reference_summaries
		WHERE prefix=?`, prefix).Scan(
		&r.Reference.Path, &r.Reference.Size, &r.Reference.ModTime, &flanking,
		&r.Summary.GCContent, &length, &mapped, &unmapped,
		&r.Summary.FractionMapped, &r.Summary.FractionUnmapped, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", prefix, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query reference summary: %w", err)
	}
	r.Flanking = int(flanking)
	r.Summary.Length = int(length)
	r.Summary.NumberMappedRegions = int(mapped)
	r.Summary.NumberUnmappedRegions = int(unmapped)

	r.Unmapped, err = s.UnmappedRegions(prefix)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UnmappedRegions returns the unmapped region rows for prefix in the order they were written.
func (s *Store) UnmappedRegions(prefix string) ([]stats.RegionSummary, error) {
	rows, err := s.db.Query(`SELECT region, gc_content, length, `+
		strings.Join(residueColumns(), ", ")+`
		FROM unmapped_regions
		WHERE prefix=?
		ORDER BY row_index`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query unmapped regions: %w", err)
	}
	defer rows.Close()

	var out []stats.RegionSummary
	for rows.Next() {
		var u stats.RegionSummary
		var length int64
		dest := []any{&u.Label, &u.GCContent, &length}
		for i := range u.Composition {
			dest = append(dest, &u.Composition[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan unmapped region: %w", err)
		}
		u.Length = int(length)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unmapped regions: %w", err)
	}
	return out, nil
}

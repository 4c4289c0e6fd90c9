// Package fasta loads reference sequences from FASTA files.
package fasta

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

var (
	// ErrNoRecords is returned when a FASTA file holds no sequence.
	ErrNoRecords = errors.New("no FASTA records found")
	// ErrMultipleRecords is returned when a single record was expected.
	ErrMultipleRecords = errors.New("more than one FASTA record found")
)

// Record is one FASTA entry.
type Record struct {
	ID   string
	Desc string
	Seq  string
}

// Len returns the sequence length.
func (r Record) Len() int {
	return len(r.Seq)
}

// open returns a reader over path, transparently decompressing .gz files.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	return &gzipFile{Reader: gz, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

// Scan calls fn for every record in r, in file order.
func Scan(r io.Reader, fn func(Record) error) error {
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(biofasta.NewReader(r, template))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		if err := fn(Record{ID: s.ID, Desc: s.Desc, Seq: lettersToString(s.Seq)}); err != nil {
			return err
		}
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}
	return nil
}

func lettersToString(ls alphabet.Letters) string {
	b := make([]byte, len(ls))
	for i, l := range ls {
		b[i] = byte(l)
	}
	return string(b)
}

// ReadAll returns every record in the file at path.
func ReadAll(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var recs []Record
	err = Scan(rc, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	return recs, err
}

// ReadSingle returns the only record in the file at path.
// Files with zero or several records are rejected.
func ReadSingle(path string) (Record, error) {
	recs, err := ReadAll(path)
	if err != nil {
		return Record{}, err
	}
	switch len(recs) {
	case 0:
		return Record{}, fmt.Errorf("%s: %w", path, ErrNoRecords)
	case 1:
		return recs[0], nil
	default:
		return Record{}, fmt.Errorf("%s: %w (%d)", path, ErrMultipleRecords, len(recs))
	}
}

// CountRecords returns the number of records in the file at path.
func CountRecords(path string) (int, error) {
	rc, err := open(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n := 0
	err = Scan(rc, func(Record) error {
		n++
		return nil
	})
	return n, err
}

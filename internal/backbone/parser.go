// Package backbone parses progressiveMauve backbone coordinate files.
package backbone

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Backbone column names written by progressiveMauve.
const (
	ColSeq0Left  = "seq0_leftend"
	ColSeq0Right = "seq0_rightend"
	ColSeq1Left  = "seq1_leftend"
	ColSeq1Right = "seq1_rightend"
)

// ErrMalformedInput is matched by every *ParseError.
var ErrMalformedInput = errors.New("malformed backbone input")

// Row is one line of a backbone file.
// Sign encodes orientation; zero means the sequence has no alignment at the locus.
type Row struct {
	Seq0Left  int64 // reference left end
	Seq0Right int64 // reference right end
	Seq1Left  int64 // assembly left end
	Seq1Right int64 // assembly right end
}

// ColumnIndices holds the positions of the required backbone columns.
type ColumnIndices struct {
	Seq0Left  int
	Seq0Right int
	Seq1Left  int
	Seq1Right int
}

// Parser reads rows from a backbone file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	lineNumber int
	columns    ColumnIndices
}

// NewParser opens a backbone file and parses its header.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open backbone file: %w", err)
	}

	p, err := NewParserFromReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	p.file = file
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseHeader reads the first non-empty line and locates the required columns.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read header: %w", err)
		}
		if err == io.EOF && line == "" {
			return &ParseError{Line: p.lineNumber, Message: "no header line found"}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if err == io.EOF {
				return &ParseError{Line: p.lineNumber, Message: "no header line found"}
			}
			continue
		}
		return p.parseColumnIndices(line)
	}
}

func (p *Parser) parseColumnIndices(headerLine string) error {
	p.columns = ColumnIndices{Seq0Left: -1, Seq0Right: -1, Seq1Left: -1, Seq1Right: -1}

	for i, col := range strings.Split(headerLine, "\t") {
		switch strings.TrimSpace(col) {
		case ColSeq0Left:
			p.columns.Seq0Left = i
		case ColSeq0Right:
			p.columns.Seq0Right = i
		case ColSeq1Left:
			p.columns.Seq1Left = i
		case ColSeq1Right:
			p.columns.Seq1Right = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{
		{ColSeq0Left, p.columns.Seq0Left},
		{ColSeq0Right, p.columns.Seq0Right},
		{ColSeq1Left, p.columns.Seq1Left},
		{ColSeq1Right, p.columns.Seq1Right},
	}
	for _, r := range required {
		if r.idx == -1 {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column '%s' not found in header", r.name),
			}
		}
	}
	return nil
}

// Next reads the next row.
// Returns nil, nil when there are no more rows.
func (p *Parser) Next() (*Row, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read backbone line: %w", err)
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}
		return p.parseLine(line)
	}
}

func (p *Parser) parseLine(line string) (*Row, error) {
	fields := strings.Split(line, "\t")

	minCols := max(p.columns.Seq0Left, p.columns.Seq0Right, p.columns.Seq1Left, p.columns.Seq1Right)
	if len(fields) <= minCols {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	var row Row
	targets := []struct {
		name string
		idx  int
		dst  *int64
	}{
		{ColSeq0Left, p.columns.Seq0Left, &row.Seq0Left},
		{ColSeq0Right, p.columns.Seq0Right, &row.Seq0Right},
		{ColSeq1Left, p.columns.Seq1Left, &row.Seq1Left},
		{ColSeq1Right, p.columns.Seq1Right, &row.Seq1Right},
	}
	for _, t := range targets {
		raw := strings.TrimSpace(fields[t.idx])
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("invalid %s: %q", t.name, raw),
			}
		}
		*t.dst = v
	}
	return &row, nil
}

// Close closes the underlying file, if any.
func (p *Parser) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadAll reads every remaining row.
func (p *Parser) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return rows, nil
		}
		rows = append(rows, *r)
	}
}

// Read parses the backbone file at path.
func Read(path string) ([]Row, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll()
}

// Parse parses backbone content from r.
func Parse(r io.Reader) ([]Row, error) {
	p, err := NewParserFromReader(r)
	if err != nil {
		return nil, err
	}
	return p.ReadAll()
}

// ParseError represents a malformed backbone file with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("backbone parse error at line %d: %s", e.Line, e.Message)
}

// Unwrap lets errors.Is match ErrMalformedInput.
func (e *ParseError) Unwrap() error {
	return ErrMalformedInput
}

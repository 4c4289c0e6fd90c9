// Package output writes region sequences and summary tables.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/logt-kuleuven/saspector/internal/regions"
	"github.com/logt-kuleuven/saspector/internal/stats"
)

// ReferenceColumns is the header of the reference summary table.
var ReferenceColumns = []string{
	"GCContent",
	"Length",
	"NumberMappedRegions",
	"NumberUnmappedRegions",
	"FractionMapped",
	"FractionUnmapped",
}

// CatalogColumns is the header of the catalogued run listing.
var CatalogColumns = append([]string{"Prefix"}, ReferenceColumns...)

// LocateColumns is the header of position lookup results.
var LocateColumns = []string{"Position", "Category", "Start", "End", "Row"}

// UnmappedColumns returns the header of the unmapped region table.
func UnmappedColumns() []string {
	cols := []string{"Region", "GCContent", "Length"}
	for r := stats.Residue(0); r < stats.NumResidues; r++ {
		cols = append(cols, r.Name())
	}
	return cols
}

// TabWriter writes tab-delimited tables.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a tab-delimited writer with the given header columns.
func NewTabWriter(w io.Writer, columns []string) *TabWriter {
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: columns,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	return tw.writeRow(tw.columns)
}

// WriteReference writes one reference summary row.
func (tw *TabWriter) WriteReference(s stats.ReferenceSummary) error {
	return tw.writeRow(referenceValues(s))
}

// WriteCatalogRow writes a reference summary row preceded by its prefix.
func (tw *TabWriter) WriteCatalogRow(prefix string, s stats.ReferenceSummary) error {
	return tw.writeRow(append([]string{prefix}, referenceValues(s)...))
}

func referenceValues(s stats.ReferenceSummary) []string {
	return []string{
		formatFloat(s.GCContent),
		strconv.Itoa(s.Length),
		strconv.Itoa(s.NumberMappedRegions),
		strconv.Itoa(s.NumberUnmappedRegions),
		formatFloat(s.FractionMapped),
		formatFloat(s.FractionUnmapped),
	}
}

// WriteHit writes one interval containing pos.
func (tw *TabWriter) WriteHit(pos int64, h regions.Hit) error {
	return tw.writeRow([]string{
		strconv.FormatInt(pos, 10),
		h.Kind.String(),
		strconv.FormatInt(h.Interval.Start, 10),
		strconv.FormatInt(h.Interval.End, 10),
		strconv.Itoa(h.Row),
	})
}

// WriteRegion writes one unmapped region row.
func (tw *TabWriter) WriteRegion(s stats.RegionSummary) error {
	values := make([]string, 0, 3+len(s.Composition))
	values = append(values,
		s.Label,
		formatFloat(s.GCContent),
		strconv.Itoa(s.Length),
	)
	for _, pct := range s.Composition {
		values = append(values, formatFloat(pct))
	}
	return tw.writeRow(values)
}

func (tw *TabWriter) writeRow(values []string) error {
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

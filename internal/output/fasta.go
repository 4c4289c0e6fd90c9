package output

import (
	"bufio"
	"io"

	"github.com/logt-kuleuven/saspector/internal/regions"
)

// FASTAWriter writes regions as single-line FASTA records.
type FASTAWriter struct {
	w *bufio.Writer
}

// NewFASTAWriter creates a new FASTA writer.
func NewFASTAWriter(w io.Writer) *FASTAWriter {
	return &FASTAWriter{w: bufio.NewWriter(w)}
}

// Write writes one record: the label as header, the sequence unwrapped.
func (fw *FASTAWriter) Write(r regions.Region) error {
	if err := fw.w.WriteByte('>'); err != nil {
		return err
	}
	if _, err := fw.w.WriteString(r.Label); err != nil {
		return err
	}
	if err := fw.w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := fw.w.WriteString(r.Seq); err != nil {
		return err
	}
	return fw.w.WriteByte('\n')
}

// WriteAll writes every region in order.
func (fw *FASTAWriter) WriteAll(rs []regions.Region) error {
	for _, r := range rs {
		if err := fw.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FASTAWriter) Flush() error {
	return fw.w.Flush()
}

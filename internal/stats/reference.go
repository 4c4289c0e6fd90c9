package stats

import (
	"errors"

	"github.com/logt-kuleuven/saspector/internal/regions"
)

// ErrEmptyReference is returned when the reference sequence has no bases.
var ErrEmptyReference = errors.New("empty reference sequence")

// ReferenceSummary holds the genome-wide statistics of one run.
type ReferenceSummary struct {
	GCContent             float64
	Length                int
	NumberMappedRegions   int
	NumberUnmappedRegions int
	FractionMapped        float64
	FractionUnmapped      float64
}

// SummarizeReference computes whole-reference GC content and length plus
// the fraction of the genome covered by each category.
//
// Mapped span and count include the conflict and reverse tables, so
// FractionMapped + FractionUnmapped is not expected to equal 100.
func SummarizeReference(ref string, c regions.Categories) (ReferenceSummary, error) {
	if len(ref) == 0 {
		return ReferenceSummary{}, ErrEmptyReference
	}

	aligned := totalSpan(c.Mapped) + totalSpan(c.Conflict) + totalSpan(c.Reverse)
	unaligned := totalSpan(c.Unmapped)
	length := float64(len(ref))

	return ReferenceSummary{
		GCContent:             GCContent(ref),
		Length:                len(ref),
		NumberMappedRegions:   len(c.Mapped) + len(c.Reverse) + len(c.Conflict),
		NumberUnmappedRegions: len(c.Unmapped),
		FractionMapped:        float64(aligned) / length * 100,
		FractionUnmapped:      float64(unaligned) / length * 100,
	}, nil
}

func totalSpan(table []regions.Interval) int64 {
	var sum int64
	for _, iv := range table {
		sum += iv.Span()
	}
	return sum
}

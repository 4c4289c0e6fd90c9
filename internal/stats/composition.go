package stats

import (
	"errors"

	"go.uber.org/zap"

	"github.com/logt-kuleuven/saspector/internal/regions"
)

// ErrEmptyRegion is returned for a region whose extracted sequence is empty.
var ErrEmptyRegion = errors.New("empty region sequence")

// Residue indexes the tallied amino acids and the stop symbol.
type Residue int

// Residues in report column order.
const (
	ResA Residue = iota
	ResD
	ResE
	ResG
	ResF
	ResL
	ResY
	ResC
	ResW
	ResP
	ResH
	ResQ
	ResI
	ResM
	ResT
	ResN
	ResS
	ResK
	ResR
	ResV
	ResStop
	NumResidues
)

var residueSymbols = [NumResidues]byte{
	'A', 'D', 'E', 'G', 'F', 'L', 'Y', 'C', 'W', 'P',
	'H', 'Q', 'I', 'M', 'T', 'N', 'S', 'K', 'R', 'V', '*',
}

// residueIndex maps a translated symbol to its Residue, -1 if untallied.
var residueIndex = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for r, sym := range residueSymbols {
		idx[sym] = int8(r)
	}
	return idx
}()

// Symbol returns the one-letter code, '*' for stop.
func (r Residue) Symbol() byte {
	return residueSymbols[r]
}

// Name returns the report column name.
func (r Residue) Name() string {
	if r == ResStop {
		return "Stop"
	}
	return string(residueSymbols[r])
}

// ResidueOf returns the Residue for a translated symbol.
func ResidueOf(symbol byte) (Residue, bool) {
	i := residueIndex[symbol]
	if i < 0 {
		return 0, false
	}
	return Residue(i), true
}

// Counts holds residue occurrences.
type Counts [NumResidues]int

// Composition holds residue percentages.
type Composition [NumResidues]float64

// Total returns the sum of all percentages.
func (c Composition) Total() float64 {
	var sum float64
	for _, v := range c {
		sum += v
	}
	return sum
}

// CountResidues tallies residues over all frames. total counts every
// translated symbol, including untallied ones such as 'X'.
func CountResidues(frames []string) (counts Counts, total int) {
	for _, f := range frames {
		total += len(f)
		for i := 0; i < len(f); i++ {
			if r, ok := ResidueOf(f[i]); ok {
				counts[r]++
			}
		}
	}
	return counts, total
}

// Normalize converts counts to percentages of total. A zero total yields
// an all-zero composition.
func (c Counts) Normalize(total int) Composition {
	var comp Composition
	if total == 0 {
		return comp
	}
	for i, n := range c {
		comp[i] = float64(n) / float64(total) * 100
	}
	return comp
}

// SixFrameComposition pools residue counts over all six reading frames of
// seq and normalizes by the pooled residue total. Unresolvable codons
// translate to 'X', which counts toward the total but has no column, so the
// 21 percentages sum to less than 100 when seq holds ambiguous bases.
func SixFrameComposition(seq string) Composition {
	frames := SixFrames(seq)
	counts, total := CountResidues(frames[:])
	return counts.Normalize(total)
}

// GCContent returns the percentage of G, C and S (either case) in seq.
// An empty sequence has 0% GC.
func GCContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'S', 'g', 'c', 's':
			gc++
		}
	}
	return float64(gc) * 100 / float64(len(seq))
}

// RegionSummary holds the statistics reported for one unmapped region.
type RegionSummary struct {
	Label       string
	GCContent   float64
	Length      int
	Composition Composition
}

// SummarizeRegion computes GC content, length and six-frame composition.
// A region too short to hold a codon has an all-zero composition.
func SummarizeRegion(r regions.Region) (RegionSummary, error) {
	if len(r.Seq) == 0 {
		return RegionSummary{Label: r.Label}, ErrEmptyRegion
	}
	return RegionSummary{
		Label:       r.Label,
		GCContent:   GCContent(r.Seq),
		Length:      len(r.Seq),
		Composition: SixFrameComposition(r.Seq),
	}, nil
}

// UnmappedSummary summarizes every region in order. Empty regions are
// skipped with a warning so one bad interval never aborts the batch.
func UnmappedSummary(rs []regions.Region, logger *zap.Logger) []RegionSummary {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]RegionSummary, 0, len(rs))
	for _, r := range rs {
		s, err := SummarizeRegion(r)
		if err != nil {
			logger.Warn("skipping region",
				zap.String("region", r.Label),
				zap.Error(err))
			continue
		}
		out = append(out, s)
	}
	return out
}

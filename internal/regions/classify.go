// Package regions classifies backbone coordinates and extracts region sequences.
package regions

import "github.com/logt-kuleuven/saspector/internal/backbone"

// Kind labels a category of backbone interval.
type Kind int

const (
	// Mapped intervals are aligned in both reference and assembly.
	Mapped Kind = iota
	// Unmapped intervals exist in the reference only.
	Unmapped
	// Conflict intervals exist in the assembly only.
	Conflict
	// Reverse intervals align with opposite orientation.
	Reverse
)

// Kinds lists every category in reporting order.
var Kinds = []Kind{Mapped, Unmapped, Conflict, Reverse}

func (k Kind) String() string {
	switch k {
	case Mapped:
		return "mapped"
	case Unmapped:
		return "unmapped"
	case Conflict:
		return "conflict"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// Interval is a pair of backbone endpoints.
type Interval struct {
	Start int64
	End   int64
}

// Span returns the absolute distance between the endpoints.
func (iv Interval) Span() int64 {
	if iv.End < iv.Start {
		return iv.Start - iv.End
	}
	return iv.End - iv.Start
}

// Categories holds the four classified interval tables in backbone order.
type Categories struct {
	Mapped   []Interval
	Unmapped []Interval
	Conflict []Interval
	Reverse  []Interval
}

// Table returns the intervals for kind k.
func (c Categories) Table(k Kind) []Interval {
	switch k {
	case Mapped:
		return c.Mapped
	case Unmapped:
		return c.Unmapped
	case Conflict:
		return c.Conflict
	case Reverse:
		return c.Reverse
	default:
		return nil
	}
}

// Classify partitions backbone rows into category tables.
//
// Each predicate is evaluated independently:
//   - mapped:   seq1 ends > 0 and seq0 ends > 0, keeps the seq0 pair
//   - unmapped: seq1 ends == 0, keeps the seq0 pair
//   - conflict: seq0 ends == 0, keeps the seq1 pair
//   - reverse:  seq1 ends > 0 and seq0 ends < 0, keeps the seq0 pair
//
// Mauve reports inverted blocks with negative seq1 coordinates, so the
// reverse predicate as written never matches real backbones.
func Classify(rows []backbone.Row) Categories {
	var c Categories
	for _, r := range rows {
		seq0 := Interval{Start: r.Seq0Left, End: r.Seq0Right}
		seq1 := Interval{Start: r.Seq1Left, End: r.Seq1Right}

		assemblyForward := r.Seq1Left > 0 && r.Seq1Right > 0

		if assemblyForward && r.Seq0Left > 0 && r.Seq0Right > 0 {
			c.Mapped = append(c.Mapped, seq0)
		}
		if r.Seq1Left == 0 && r.Seq1Right == 0 {
			c.Unmapped = append(c.Unmapped, seq0)
		}
		if r.Seq0Left == 0 && r.Seq0Right == 0 {
			c.Conflict = append(c.Conflict, seq1)
		}
		if assemblyForward && r.Seq0Left < 0 && r.Seq0Right < 0 {
			c.Reverse = append(c.Reverse, seq0)
		}
	}
	return c
}

package regions

import "strconv"

// Region is an extracted reference subsequence.
type Region struct {
	Label string
	Start int64 // flank-adjusted, unclamped
	End   int64 // flank-adjusted, unclamped
	Seq   string
}

// Len returns the extracted sequence length.
func (r Region) Len() int {
	return len(r.Seq)
}

// FormatLabel builds the region identifier "<prefix>_<start>:<end>".
func FormatLabel(prefix string, start, end int64) string {
	buf := make([]byte, 0, len(prefix)+24)
	buf = append(buf, prefix...)
	buf = append(buf, '_')
	buf = strconv.AppendInt(buf, start, 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, end, 10)
	return string(buf)
}

// Extract slices ref at every interval of table, in order.
// Start is moved left and End right by flanking bases. Slice bounds are
// clamped to the reference; labels keep the unclamped coordinates.
func Extract(ref string, table []Interval, prefix string, flanking int) []Region {
	if len(table) == 0 {
		return nil
	}

	flank := int64(flanking)
	out := make([]Region, 0, len(table))
	for _, iv := range table {
		start := iv.Start - flank
		end := iv.End + flank
		out = append(out, Region{
			Label: FormatLabel(prefix, start, end),
			Start: start,
			End:   end,
			Seq:   slice(ref, start, end),
		})
	}
	return out
}

// slice returns ref[start:end] with both bounds clamped to [0, len(ref)].
func slice(ref string, start, end int64) string {
	n := int64(len(ref))
	start = min(max(start, 0), n)
	end = min(max(end, 0), n)
	if start >= end {
		return ""
	}
	return ref[start:end]
}

// Extracted holds the region sequences for the three reported categories.
type Extracted struct {
	Mapped   []Region
	Unmapped []Region
	Conflict []Region
}

// ExtractAll extracts mapped, unmapped and conflict regions from ref.
// Only unmapped regions are flanked.
func ExtractAll(ref string, c Categories, prefix string, flanking int) Extracted {
	return Extracted{
		Mapped:   Extract(ref, c.Mapped, prefix, 0),
		Unmapped: Extract(ref, c.Unmapped, prefix, flanking),
		Conflict: Extract(ref, c.Conflict, prefix, 0),
	}
}

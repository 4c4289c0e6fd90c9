package regions

import "sort"

// Hit is a category interval containing a queried position.
type Hit struct {
	Kind     Kind
	Interval Interval
	Row      int // position of the interval within its category table
}

// Index answers position queries over classified intervals using a
// sorted-slice approach. It is built once and never modified.
type Index struct {
	entries []entry
	maxEnd  []int64 // maxEnd[i] = max(hi) for entries[:i+1]
}

type entry struct {
	lo, hi int64
	hit    Hit
}

// ReferenceKinds are the categories whose intervals are reference coordinates.
var ReferenceKinds = []Kind{Mapped, Unmapped, Reverse}

// AssemblyKinds are the categories whose intervals are assembly coordinates.
var AssemblyKinds = []Kind{Conflict}

// NewIndex builds an index over the reference-coordinate intervals of c.
// Endpoints are compared by magnitude so reverse-strand pairs are searchable.
func NewIndex(c Categories) *Index {
	return newIndex(c, ReferenceKinds)
}

// NewAssemblyIndex builds an index over the assembly-coordinate intervals of c.
func NewAssemblyIndex(c Categories) *Index {
	return newIndex(c, AssemblyKinds)
}

func newIndex(c Categories, kinds []Kind) *Index {
	var entries []entry
	for _, k := range kinds {
		for i, iv := range c.Table(k) {
			lo, hi := magnitudeBounds(iv)
			entries = append(entries, entry{lo: lo, hi: hi, hit: Hit{Kind: k, Interval: iv, Row: i}})
		}
	}
	if len(entries) == 0 {
		return &Index{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].lo < entries[j].lo
	})

	maxEnd := make([]int64, len(entries))
	maxEnd[0] = entries[0].hi
	for i := 1; i < len(entries); i++ {
		maxEnd[i] = max(entries[i].hi, maxEnd[i-1])
	}

	return &Index{entries: entries, maxEnd: maxEnd}
}

// Len returns the number of indexed intervals.
func (x *Index) Len() int {
	return len(x.entries)
}

// Locate returns every interval whose [lo, hi] range contains pos,
// ordered by interval start.
func (x *Index) Locate(pos int64) []Hit {
	if len(x.entries) == 0 {
		return nil
	}

	// Candidates are entries[0:hi) where lo <= pos.
	hi := sort.Search(len(x.entries), func(i int) bool {
		return x.entries[i].lo > pos
	})

	var result []Hit
	for i := hi - 1; i >= 0; i-- {
		if x.maxEnd[i] < pos {
			break // nothing at or before i reaches pos
		}
		if x.entries[i].hi >= pos {
			result = append(result, x.entries[i].hit)
		}
	}

	// Scanning ran backwards; restore start order.
	for l, r := 0, len(result)-1; l < r; l, r = l+1, r-1 {
		result[l], result[r] = result[r], result[l]
	}
	return result
}

func magnitudeBounds(iv Interval) (lo, hi int64) {
	a, b := abs(iv.Start), abs(iv.End)
	if a > b {
		return b, a
	}
	return a, b
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

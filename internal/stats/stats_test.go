package stats

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/logt-kuleuven/saspector/internal/regions"
)

func TestGCContent(t *testing.T) {
	tests := []struct {
		seq  string
		want float64
	}{
		{"GGCCAATT", 50},
		{"ATAT", 0},
		{"GCGC", 100},
		{"gcS", 100},
		{"NNGC", 50},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			assert.InDelta(t, tt.want, GCContent(tt.seq), 1e-9)
		})
	}
}

func TestResidue_Names(t *testing.T) {
	var names []string
	for r := Residue(0); r < NumResidues; r++ {
		names = append(names, r.Name())
	}
	assert.Equal(t,
		[]string{"A", "D", "E", "G", "F", "L", "Y", "C", "W", "P", "H", "Q", "I", "M", "T", "N", "S", "K", "R", "V", "Stop"},
		names)
	assert.Equal(t, byte('*'), ResStop.Symbol())
}

func TestResidueOf(t *testing.T) {
	r, ok := ResidueOf('W')
	require.True(t, ok)
	assert.Equal(t, ResW, r)

	r, ok = ResidueOf('*')
	require.True(t, ok)
	assert.Equal(t, ResStop, r)

	_, ok = ResidueOf('X')
	assert.False(t, ok)
}

func TestSixFrameComposition(t *testing.T) {
	// Frames: MA W G GH A P -> 8 residues.
	comp := SixFrameComposition("ATGGCC")

	assert.InDelta(t, 25.0, comp[ResA], 1e-9)
	assert.InDelta(t, 25.0, comp[ResG], 1e-9)
	assert.InDelta(t, 12.5, comp[ResM], 1e-9)
	assert.InDelta(t, 12.5, comp[ResW], 1e-9)
	assert.InDelta(t, 12.5, comp[ResH], 1e-9)
	assert.InDelta(t, 12.5, comp[ResP], 1e-9)
	assert.Zero(t, comp[ResStop])
	assert.InDelta(t, 100.0, comp.Total(), 1e-9)
}

func TestSixFrameComposition_CountsStops(t *testing.T) {
	// Frames: ** N I LL Y I -> 8 residues, 2 stops.
	comp := SixFrameComposition("TAATAA")
	assert.InDelta(t, 25.0, comp[ResStop], 1e-9)
	assert.InDelta(t, 25.0, comp[ResL], 1e-9)
	assert.InDelta(t, 25.0, comp[ResI], 1e-9)
	assert.InDelta(t, 100.0, comp.Total(), 1e-9)
}

func TestSixFrameComposition_SumsTo100(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const bases = "ACGT"
	for n := 3; n < 400; n += 37 {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteByte(bases[rng.Intn(len(bases))])
		}
		comp := SixFrameComposition(sb.String())
		assert.InDelta(t, 100.0, comp.Total(), 1e-6, "length %d", n)
	}
}

func TestSixFrameComposition_UntalliedSymbolsDiluteTotal(t *testing.T) {
	// NNNATG: forward frame 0 is "XM", so X counts toward the total only.
	comp := SixFrameComposition("NNNATG")
	assert.Less(t, comp.Total(), 100.0)
	assert.Greater(t, comp[ResM], 0.0)
}

func TestCountResidues(t *testing.T) {
	counts, total := CountResidues([]string{"MAX", "*", ""})
	assert.Equal(t, 4, total, "every symbol counts, including X")
	assert.Equal(t, 1, counts[ResM])
	assert.Equal(t, 1, counts[ResA])
	assert.Equal(t, 1, counts[ResStop])
}

func TestCounts_NormalizeZeroTotal(t *testing.T) {
	var c Counts
	assert.Equal(t, Composition{}, c.Normalize(0))
}

func TestSummarizeRegion(t *testing.T) {
	s, err := SummarizeRegion(regions.Region{Label: "G_1:7", Seq: "ATGGCC"})
	require.NoError(t, err)
	assert.Equal(t, "G_1:7", s.Label)
	assert.Equal(t, 6, s.Length)
	assert.InDelta(t, 66.666666, s.GCContent, 1e-5)
	assert.InDelta(t, 100.0, s.Composition.Total(), 1e-9)
}

func TestSummarizeRegion_TooShortForCodon(t *testing.T) {
	s, err := SummarizeRegion(regions.Region{Label: "G_0:2", Seq: "AC"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Length)
	assert.InDelta(t, 50.0, s.GCContent, 1e-9)
	assert.Equal(t, Composition{}, s.Composition)
}

func TestSummarizeRegion_Empty(t *testing.T) {
	_, err := SummarizeRegion(regions.Region{Label: "G_2000:2100"})
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestUnmappedSummary_SkipsEmptyRegions(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rs := []regions.Region{
		{Label: "G_0:6", Seq: "ATGGCC"},
		{Label: "G_900:950"},
		{Label: "G_10:16", Seq: "TAATAA"},
	}

	out := UnmappedSummary(rs, zap.New(core))
	require.Len(t, out, 2)
	assert.Equal(t, "G_0:6", out[0].Label)
	assert.Equal(t, "G_10:16", out[1].Label)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipping region", entry.Message)
	assert.Equal(t, "G_900:950", entry.ContextMap()["region"])
}

func TestUnmappedSummary_NilLogger(t *testing.T) {
	out := UnmappedSummary([]regions.Region{{Label: "x"}}, nil)
	assert.Empty(t, out)
}

func TestSummarizeReference(t *testing.T) {
	ref := strings.Repeat("GCAT", 250)
	c := regions.Categories{
		Mapped:   []regions.Interval{{Start: 100, End: 200}, {Start: 300, End: 500}},
		Unmapped: []regions.Interval{{Start: 200, End: 300}},
		Conflict: []regions.Interval{{Start: 10, End: 60}},
		Reverse:  []regions.Interval{{Start: -900, End: -800}},
	}

	s, err := SummarizeReference(ref, c)
	require.NoError(t, err)

	assert.Equal(t, 1000, s.Length)
	assert.InDelta(t, 50.0, s.GCContent, 1e-9)
	assert.Equal(t, 4, s.NumberMappedRegions, "mapped count includes reverse and conflict")
	assert.Equal(t, 1, s.NumberUnmappedRegions)
	assert.InDelta(t, 45.0, s.FractionMapped, 1e-9)
	assert.InDelta(t, 10.0, s.FractionUnmapped, 1e-9)
	assert.NotEqual(t, 100.0, s.FractionMapped+s.FractionUnmapped)
}

func TestSummarizeReference_NoRegions(t *testing.T) {
	s, err := SummarizeReference("ACGT", regions.Categories{})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Length)
	assert.Zero(t, s.NumberMappedRegions)
	assert.Zero(t, s.FractionMapped)
	assert.Zero(t, s.FractionUnmapped)
}

func TestSummarizeReference_Empty(t *testing.T) {
	_, err := SummarizeReference("", regions.Categories{})
	assert.ErrorIs(t, err, ErrEmptyReference)
}

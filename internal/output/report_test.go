package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logt-kuleuven/saspector/internal/regions"
	"github.com/logt-kuleuven/saspector/internal/stats"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestWriteReport(t *testing.T) {
	root := t.TempDir()
	rep := Report{
		Prefix: "ecoli",
		Regions: regions.Extracted{
			Mapped:   []regions.Region{{Label: "ecoli_100:200", Seq: "ACGT"}},
			Unmapped: []regions.Region{{Label: "ecoli_290:410", Seq: "GGCC"}, {Label: "ecoli_500:520", Seq: "TTAA"}},
			Conflict: nil,
		},
		Reference: stats.ReferenceSummary{GCContent: 50, Length: 1000, NumberMappedRegions: 1, NumberUnmappedRegions: 2, FractionMapped: 10, FractionUnmapped: 14},
		Unmapped: []stats.RegionSummary{
			{Label: "ecoli_290:410", GCContent: 100, Length: 4},
			{Label: "ecoli_500:520", GCContent: 0, Length: 4},
		},
	}

	paths, err := WriteReport(root, rep)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "summary", "ecoli_referencesummary.tsv"), paths.ReferenceSummary)
	assert.Equal(t, filepath.Join(root, "summary", "ecoli_unmapsummary.tsv"), paths.UnmappedSummary)
	assert.Equal(t, filepath.Join(root, "ecoli_mappedregions.fasta"), paths.MappedFASTA)
	assert.Equal(t, filepath.Join(root, "ecoli_unmappedregions.fasta"), paths.UnmappedFASTA)
	assert.Equal(t, filepath.Join(root, "ecoli_conflictregions.fasta"), paths.ConflictFASTA)

	ref := readLines(t, paths.ReferenceSummary)
	require.Len(t, ref, 2)
	assert.Equal(t, "50\t1000\t1\t2\t10\t14", ref[1])

	unmap := readLines(t, paths.UnmappedSummary)
	require.Len(t, unmap, 3)
	assert.True(t, strings.HasPrefix(unmap[1], "ecoli_290:410\t100\t4\t"))

	assert.Equal(t, []string{">ecoli_100:200", "ACGT"}, readLines(t, paths.MappedFASTA))
	assert.Equal(t, []string{">ecoli_290:410", "GGCC", ">ecoli_500:520", "TTAA"}, readLines(t, paths.UnmappedFASTA))

	conflict, err := os.ReadFile(paths.ConflictFASTA)
	require.NoError(t, err)
	assert.Empty(t, conflict)
}

func TestWriteReport_EmptyReportWritesHeaders(t *testing.T) {
	root := t.TempDir()
	paths, err := WriteReport(root, Report{Prefix: "p", Reference: stats.ReferenceSummary{Length: 10}})
	require.NoError(t, err)

	unmap := readLines(t, paths.UnmappedSummary)
	require.Len(t, unmap, 1)
	assert.Equal(t, strings.Join(UnmappedColumns(), "\t"), unmap[0])

	for _, p := range []string{paths.MappedFASTA, paths.UnmappedFASTA, paths.ConflictFASTA} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	}
}

func TestWriteReport_SummaryDirExists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, SummaryDir), 0755))

	_, err := WriteReport(root, Report{Prefix: "p"})
	assert.ErrorIs(t, err, ErrDirectoryExists)
}

func TestMakeFreshDir_MissingParent(t *testing.T) {
	err := MakeFreshDir(filepath.Join(t.TempDir(), "a", "b"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDirectoryExists)
}

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBackbone = "seq0_leftend\tseq0_rightend\tseq1_leftend\tseq1_rightend\n" +
	"100\t200\t150\t250\n" +
	"150\t300\t0\t0\n"

// execute runs the root command with an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeInputs(t *testing.T) (ref, bb string) {
	t.Helper()
	dir := t.TempDir()
	ref = filepath.Join(dir, "ref.fasta")
	require.NoError(t, os.WriteFile(ref, []byte(">ref\n"+strings.Repeat("GATTACA", 60)+"\n"), 0644))
	bb = filepath.Join(dir, "GEN.backbone")
	require.NoError(t, os.WriteFile(bb, []byte(testBackbone), 0644))
	return ref, bb
}

func TestLocateCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, bb := writeInputs(t)

	out, err := execute(t, "locate", "-b", bb, "175", "850")
	require.NoError(t, err)
	assert.Equal(t,
		"Position\tCategory\tStart\tEnd\tRow\n"+
			"175\tmapped\t100\t200\t0\n"+
			"175\tunmapped\t150\t300\t0\n",
		out)
}

func TestLocateCmd_ConflictUsesAssemblyCoordinates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	bb := filepath.Join(t.TempDir(), "GEN.backbone")
	require.NoError(t, os.WriteFile(bb, []byte(testBackbone+"0\t0\t160\t190\n"), 0644))

	out, err := execute(t, "locate", "-b", bb, "175")
	require.NoError(t, err)
	assert.NotContains(t, out, "conflict")

	out, err = execute(t, "locate", "-b", bb, "--assembly", "175")
	require.NoError(t, err)
	assert.Equal(t,
		"Position\tCategory\tStart\tEnd\tRow\n"+
			"175\tconflict\t160\t190\t0\n",
		out)
}

func TestExtractAndReportCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ref, bb := writeInputs(t)
	outDir := filepath.Join(t.TempDir(), "results")
	db := filepath.Join(t.TempDir(), "runs.duckdb")

	out, err := execute(t, "extract",
		"-r", ref, "-b", bb, "-p", "GEN", "-o", outDir,
		"--flanking", "10", "--catalog", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 mapped, 1 unmapped, 0 conflict, 0 reverse")

	fa, err := os.ReadFile(filepath.Join(outDir, "GEN_unmappedregions.fasta"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(fa), ">GEN_140:310\n"))
	assert.FileExists(t, filepath.Join(outDir, "summary", "GEN_referencesummary.tsv"))

	out, err = execute(t, "report", "--catalog", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Prefix\tGCContent"))
	assert.True(t, strings.HasPrefix(lines[1], "GEN\t"))

	out, err = execute(t, "report", "--catalog", db, "GEN")
	require.NoError(t, err)
	assert.Contains(t, out, "flanking=10")
	assert.Contains(t, out, "GEN_140:310\t")
}

func TestReportWithoutCatalog(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := execute(t, "report")
	require.Error(t, err)
	assert.True(t, isUsageError(err))
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := execute(t, "config", "set", "flanking", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Set flanking = 100")
	assert.FileExists(t, filepath.Join(home, ".saspector.yaml"))

	out, err = execute(t, "config", "get", "flanking")
	require.NoError(t, err)
	assert.Equal(t, "100\n", out)

	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "flanking: 100")
	assert.Contains(t, out, "mauve: progressiveMauve")
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := execute(t, "config", "set", "log.level", "loud")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(home, ".saspector.yaml"))
}

func TestVersionCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "saspector version dev (none) built unknown\n", out)
}

func TestExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, bb := writeInputs(t)

	assert.Equal(t, ExitSuccess, run([]string{"version"}))
	assert.Equal(t, ExitUsage, run([]string{"extract", "--bogus"}))
	assert.Equal(t, ExitUsage, run([]string{"locate", "-b", bb, "not-a-number"}))
	assert.Equal(t, ExitError, run([]string{"locate", "-b", filepath.Join(t.TempDir(), "missing"), "1"}))
}

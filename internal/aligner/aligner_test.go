package aligner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMauve mimics progressiveMauve's file outputs.
const fakeMauve = `#!/bin/sh
for a in "$@"; do
  case "$a" in
    --output=*) out="${a#--output=}" ;;
    --backbone-output=*) bb="${a#--backbone-output=}" ;;
  esac
done
printf 'aln' > "$out"
printf 'cols' > "$out.bbcols"
printf 'seq0_leftend\tseq0_rightend\tseq1_leftend\tseq1_rightend\n1\t10\t1\t10\n' > "$bb"
touch "$1.sslist" "$2.sslist"
`

// fakeUnion concatenates sequence lines under a single header.
const fakeUnion = `#!/bin/sh
in="$2"
out="$4"
printf '>merged\n' > "$out"
grep -v '^>' "$in" | tr -d '\n' >> "$out"
printf '\n' >> "$out"
`

const failing = `#!/bin/sh
echo "boom" >&2
exit 3
`

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
	return path
}

func TestMauve_Align(t *testing.T) {
	tmp := t.TempDir()
	bin := writeScript(t, tmp, "progressiveMauve", fakeMauve)

	inputs := filepath.Join(tmp, "inputs")
	require.NoError(t, os.Mkdir(inputs, 0755))
	ref := filepath.Join(inputs, "ref.fasta")
	contigs := filepath.Join(inputs, "contigs.fasta")
	require.NoError(t, os.WriteFile(ref, []byte(">r\nACGT\n"), 0644))
	require.NoError(t, os.WriteFile(contigs, []byte(">c\nACGT\n"), 0644))

	dir := filepath.Join(tmp, "alignment")
	require.NoError(t, os.Mkdir(dir, 0755))

	m := NewMauve(bin)
	m.SetProgress(io.Discard)

	a, err := m.Align(context.Background(), ref, contigs, dir, "genome")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "genome.backbone"), a.Backbone)
	for _, p := range []string{
		a.Alignment,
		a.BBCols,
		a.Backbone,
		filepath.Join(dir, "ref.fasta.sslist"),
		filepath.Join(dir, "contigs.fasta.sslist"),
	} {
		assert.FileExists(t, p)
	}
	assert.NoFileExists(t, ref+".sslist", "sslist moved out of the input directory")
}

func TestMauve_AlignFailure(t *testing.T) {
	tmp := t.TempDir()
	bin := writeScript(t, tmp, "progressiveMauve", failing)

	_, err := NewMauve(bin).Align(context.Background(), "ref.fa", "contigs.fa", tmp, "g")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMauve_MissingBinary(t *testing.T) {
	_, err := NewMauve(filepath.Join(t.TempDir(), "no-such-mauve")).
		Align(context.Background(), "ref.fa", "contigs.fa", t.TempDir(), "g")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find")
}

func TestUnion_Concatenate(t *testing.T) {
	tmp := t.TempDir()
	bin := writeScript(t, tmp, "union", fakeUnion)

	ref := filepath.Join(tmp, "multi.fasta")
	require.NoError(t, os.WriteFile(ref, []byte(">a\nAAAA\n>b\nCCCC\n"), 0644))
	out := filepath.Join(tmp, "merged.fasta")

	require.NoError(t, NewUnion(bin).Concatenate(context.Background(), ref, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ">merged\nAAAACCCC\n", string(data))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, DefaultMauve, NewMauve("").binary)
	assert.Equal(t, DefaultUnion, NewUnion("").binary)
}

func TestMoveFile(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a")
	dst := filepath.Join(tmp, "b")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	require.NoError(t, moveFile(src, dst))
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)

	assert.ErrorIs(t, moveFile(src, dst), os.ErrNotExist)
}

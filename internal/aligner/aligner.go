// Package aligner wraps the external progressiveMauve aligner and the
// EMBOSS union tool used to merge multi-record references.
package aligner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
)

// Default executable names.
const (
	DefaultMauve = "progressiveMauve"
	DefaultUnion = "union"
)

// runner executes external tools one at a time, blocking until they exit.
type runner struct {
	binary   string
	logger   *zap.Logger
	progress io.Writer
}

// SetLogger sets the logger for command and artifact messages.
func (r *runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// SetProgress enables a spinner on w while the tool runs. nil disables it.
func (r *runner) SetProgress(w io.Writer) {
	r.progress = w
}

// run executes the tool with args. There is no timeout: a hung tool blocks
// until ctx is cancelled.
func (r *runner) run(ctx context.Context, label string, args ...string) error {
	path, err := exec.LookPath(r.binary)
	if err != nil {
		return fmt.Errorf("find %s executable: %w", r.binary, err)
	}

	r.logger.Debug("running external tool",
		zap.String("binary", path),
		zap.Strings("args", args))

	done := r.spin(ctx, label)
	output, err := exec.CommandContext(ctx, path, args...).CombinedOutput()
	done(err == nil)
	if err != nil {
		return fmt.Errorf("execute %s: %w: %s", r.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (r *runner) spin(ctx context.Context, label string) func(ok bool) {
	if r.progress == nil {
		return func(bool) {}
	}

	p := mpb.NewWithContext(ctx, mpb.WithWidth(40), mpb.WithOutput(r.progress))
	bar := p.New(1, mpb.SpinnerStyle(),
		mpb.PrependDecorators(decor.Name(label+": ")),
		mpb.AppendDecorators(decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO), "done")),
	)
	return func(ok bool) {
		if ok {
			bar.Increment()
		} else {
			bar.Abort(false)
		}
		p.Wait()
	}
}

// Union concatenates the records of a multi-FASTA reference.
type Union struct {
	runner
}

// NewUnion creates a Union wrapper for binary (DefaultUnion if empty).
func NewUnion(binary string) *Union {
	if binary == "" {
		binary = DefaultUnion
	}
	return &Union{runner{binary: binary, logger: zap.NewNop()}}
}

// Concatenate writes all records of reference as one sequence to outPath.
func (u *Union) Concatenate(ctx context.Context, reference, outPath string) error {
	if err := u.run(ctx, "Merging", "-sequence", reference, "-outseq", outPath); err != nil {
		return err
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("merged reference not written: %w", err)
	}
	return nil
}

// Alignment lists the artifacts of one progressiveMauve run.
type Alignment struct {
	Dir       string
	Alignment string
	BBCols    string
	Backbone  string
}

// Mauve runs progressiveMauve.
type Mauve struct {
	runner
}

// NewMauve creates a Mauve wrapper for binary (DefaultMauve if empty).
func NewMauve(binary string) *Mauve {
	if binary == "" {
		binary = DefaultMauve
	}
	return &Mauve{runner{binary: binary, logger: zap.NewNop()}}
}

// Align aligns contigs against reference, writing the alignment and
// backbone into dir (which must already exist). The .sslist files Mauve
// leaves next to its inputs are moved into dir as well.
func (m *Mauve) Align(ctx context.Context, reference, contigs, dir, prefix string) (Alignment, error) {
	a := Alignment{
		Dir:       dir,
		Alignment: filepath.Join(dir, prefix+".alignment"),
		BBCols:    filepath.Join(dir, prefix+".alignment.bbcols"),
		Backbone:  filepath.Join(dir, prefix+".backbone"),
	}

	if err := m.run(ctx, "Aligning",
		reference, contigs,
		"--output="+a.Alignment,
		"--backbone-output="+a.Backbone,
	); err != nil {
		return a, err
	}

	if _, err := os.Stat(a.Backbone); err != nil {
		return a, fmt.Errorf("backbone file not written: %w", err)
	}

	for _, input := range []string{reference, contigs} {
		src := input + ".sslist"
		dst := filepath.Join(dir, filepath.Base(src))
		if err := moveFile(src, dst); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				m.logger.Debug("no sslist artifact", zap.String("path", src))
				continue
			}
			return a, fmt.Errorf("move %s: %w", src, err)
		}
	}

	return a, nil
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

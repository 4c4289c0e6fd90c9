// Package pipeline runs the alignment and region extraction steps for one
// genome and writes their reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/logt-kuleuven/saspector/internal/aligner"
	"github.com/logt-kuleuven/saspector/internal/backbone"
	"github.com/logt-kuleuven/saspector/internal/catalog"
	"github.com/logt-kuleuven/saspector/internal/fasta"
	"github.com/logt-kuleuven/saspector/internal/output"
	"github.com/logt-kuleuven/saspector/internal/regions"
	"github.com/logt-kuleuven/saspector/internal/stats"
)

// AlignmentDir is the output subdirectory holding aligner artifacts.
const AlignmentDir = "alignment"

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid options")

// Options configures one pipeline invocation.
type Options struct {
	Reference string // reference FASTA
	Contigs   string // draft assembly FASTA, Run only
	Backbone  string // backbone table, Extract only
	Prefix    string
	OutDir    string
	Flanking  int
}

func (o Options) validate() error {
	switch {
	case o.Reference == "":
		return fmt.Errorf("%w: reference path is required", ErrInvalidOptions)
	case o.Prefix == "":
		return fmt.Errorf("%w: prefix is required", ErrInvalidOptions)
	case o.OutDir == "":
		return fmt.Errorf("%w: output directory is required", ErrInvalidOptions)
	case o.Flanking < 0:
		return fmt.Errorf("%w: flanking must be non-negative, got %d", ErrInvalidOptions, o.Flanking)
	}
	return nil
}

// Result is everything computed for one genome.
type Result struct {
	Categories regions.Categories
	Report     output.Report
	Paths      output.Paths
}

// Summarize classifies the backbone rows, extracts the regions from ref
// and computes per-region and whole-reference statistics.
func Summarize(ref string, rows []backbone.Row, prefix string, flanking int, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := regions.Classify(rows)
	refSummary, err := stats.SummarizeReference(ref, c)
	if err != nil {
		return nil, err
	}

	extracted := regions.ExtractAll(ref, c, prefix, flanking)
	return &Result{
		Categories: c,
		Report: output.Report{
			Prefix:    prefix,
			Regions:   extracted,
			Reference: refSummary,
			Unmapped:  stats.UnmappedSummary(extracted.Unmapped, logger),
		},
	}, nil
}

// Aligner produces a backbone table for a reference and a draft assembly.
type Aligner interface {
	Align(ctx context.Context, reference, contigs, dir, prefix string) (aligner.Alignment, error)
}

// Merger concatenates a multi-record reference into one sequence.
type Merger interface {
	Concatenate(ctx context.Context, reference, outPath string) error
}

// Runner drives the external tools and the extraction steps.
type Runner struct {
	aligner Aligner
	merger  Merger
	catalog *catalog.Store
	logger  *zap.Logger
}

// NewRunner creates a Runner. Either tool may be nil when only Extract is used.
func NewRunner(a Aligner, m Merger) *Runner {
	return &Runner{
		aligner: a,
		merger:  m,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// SetCatalog records every finished run in s. nil disables cataloguing.
func (r *Runner) SetCatalog(s *catalog.Store) {
	r.catalog = s
}

// Run merges the reference if it holds several records, aligns the
// contigs against it and extracts regions from the resulting backbone.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Contigs == "" {
		return nil, fmt.Errorf("%w: contigs path is required", ErrInvalidOptions)
	}
	if r.aligner == nil {
		return nil, errors.New("no aligner configured")
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	alnDir := filepath.Join(opts.OutDir, AlignmentDir)
	if err := output.MakeFreshDir(alnDir); err != nil {
		return nil, err
	}

	ref, err := r.mergedReference(ctx, opts)
	if err != nil {
		return nil, err
	}

	r.logger.Info("aligning contigs",
		zap.String("reference", ref),
		zap.String("contigs", opts.Contigs))
	aln, err := r.aligner.Align(ctx, ref, opts.Contigs, alnDir, opts.Prefix)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}

	opts.Reference = ref
	opts.Backbone = aln.Backbone
	return r.Extract(ctx, opts)
}

// mergedReference returns the reference to align against, concatenating
// a multi-record file into <out>/<prefix>_concatenated.fasta first.
func (r *Runner) mergedReference(ctx context.Context, opts Options) (string, error) {
	n, err := fasta.CountRecords(opts.Reference)
	if err != nil {
		return "", fmt.Errorf("count reference records: %w", err)
	}
	if n <= 1 {
		return opts.Reference, nil
	}
	if r.merger == nil {
		return "", fmt.Errorf("reference has %d records and no merger is configured", n)
	}

	merged := filepath.Join(opts.OutDir, opts.Prefix+"_concatenated.fasta")
	r.logger.Info("concatenating multi-record reference",
		zap.Int("records", n),
		zap.String("output", merged))
	if err := r.merger.Concatenate(ctx, opts.Reference, merged); err != nil {
		return "", fmt.Errorf("concatenate reference: %w", err)
	}
	return merged, nil
}

// Extract reads a backbone table and a single-record reference, writes the
// region FASTA files and summary tables, and catalogues the run.
func (r *Runner) Extract(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Backbone == "" {
		return nil, fmt.Errorf("%w: backbone path is required", ErrInvalidOptions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := backbone.Read(opts.Backbone)
	if err != nil {
		return nil, fmt.Errorf("read backbone: %w", err)
	}

	rec, err := fasta.ReadSingle(opts.Reference)
	if err != nil {
		return nil, fmt.Errorf("read reference: %w", err)
	}

	res, err := Summarize(rec.Seq, rows, opts.Prefix, opts.Flanking, r.logger)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	res.Paths, err = output.WriteReport(opts.OutDir, res.Report)
	if err != nil {
		return nil, err
	}

	r.logger.Info("wrote region report",
		zap.String("prefix", opts.Prefix),
		zap.Int("backbone_rows", len(rows)),
		zap.Int("mapped", len(res.Categories.Mapped)),
		zap.Int("unmapped", len(res.Categories.Unmapped)),
		zap.Int("conflict", len(res.Categories.Conflict)),
		zap.Int("reverse", len(res.Categories.Reverse)))

	if r.catalog != nil {
		if err := r.record(opts, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (r *Runner) record(opts Options, res *Result) error {
	fp, err := catalog.StatFile(opts.Reference)
	if err != nil {
		return fmt.Errorf("fingerprint reference: %w", err)
	}
	if abs, err := filepath.Abs(fp.Path); err == nil {
		fp.Path = abs
	}

	if err := r.catalog.WriteRun(catalog.Run{
		Prefix:    opts.Prefix,
		Reference: fp,
		Flanking:  opts.Flanking,
		Summary:   res.Report.Reference,
		Unmapped:  res.Report.Unmapped,
	}); err != nil {
		return fmt.Errorf("catalog run: %w", err)
	}
	r.logger.Debug("catalogued run", zap.String("prefix", opts.Prefix))
	return nil
}

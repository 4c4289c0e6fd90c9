package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/logt-kuleuven/saspector/internal/aligner"
	"github.com/logt-kuleuven/saspector/internal/catalog"
	"github.com/logt-kuleuven/saspector/internal/config"
	"github.com/logt-kuleuven/saspector/internal/pipeline"
)

func newRunCmd(a *app) *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Align contigs to a reference and summarize missing regions",
		Long: `Align a draft assembly against a reference genome with progressiveMauve,
then extract the mapped, unmapped and conflict regions from the backbone.

A multi-record reference is first concatenated with EMBOSS union into
<out>/<prefix>_concatenated.fasta. Alignment artifacts are written to
<out>/alignment and summary tables to <out>/summary; both must not exist.`,
		Example: `  saspector run -r ref.fasta -c contigs.fasta -p GEN -o results
  saspector run -r ref.fasta -c contigs.fasta -p GEN -o results --flanking 100
  saspector run -r ref.fasta -c contigs.fasta -p GEN -o results --catalog runs.duckdb`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bindFlags(cmd, map[string]string{
				"flanking": config.KeyFlanking,
				"catalog":  config.KeyCatalog,
				"mauve":    config.KeyAlignerMauve,
				"union":    config.KeyAlignerUnion,
				"progress": config.KeyProgress,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.setup()
			if err != nil {
				return err
			}
			opts.Flanking = cfg.Flanking

			mauve := aligner.NewMauve(cfg.Aligner.Mauve)
			mauve.SetLogger(a.logger)
			union := aligner.NewUnion(cfg.Aligner.Union)
			union.SetLogger(a.logger)
			if cfg.Progress {
				mauve.SetProgress(cmd.ErrOrStderr())
				union.SetProgress(cmd.ErrOrStderr())
			}

			runner := pipeline.NewRunner(mauve, union)
			runner.SetLogger(a.logger)
			closeCatalog, err := attachCatalog(runner, cfg)
			if err != nil {
				return err
			}
			defer closeCatalog()

			res, err := runner.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	addExtractFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Contigs, "contigs", "c", "", "Draft assembly contigs FASTA")
	cmd.Flags().String("mauve", aligner.DefaultMauve, "progressiveMauve executable")
	cmd.Flags().String("union", aligner.DefaultUnion, "EMBOSS union executable")
	cmd.Flags().Bool("progress", true, "Show a spinner while external tools run")
	_ = cmd.MarkFlagRequired("contigs")

	return cmd
}

// addExtractFlags registers the flags shared by run and extract.
func addExtractFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Reference, "reference", "r", "", "Reference genome FASTA")
	cmd.Flags().StringVarP(&opts.Prefix, "prefix", "p", "", "Genome name used in output file names and region labels")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "Output directory")
	cmd.Flags().IntP("flanking", "f", 0, "Bases added on both sides of every unmapped region")
	cmd.Flags().String("catalog", "", "DuckDB run catalogue to record results in")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("prefix")
	_ = cmd.MarkFlagRequired("out")
}

// attachCatalog opens the configured catalogue, if any, and returns its closer.
func attachCatalog(runner *pipeline.Runner, cfg config.Config) (func(), error) {
	if cfg.Catalog == "" {
		return func() {}, nil
	}
	store, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	runner.SetCatalog(store)
	return func() { store.Close() }, nil
}

func printResult(w io.Writer, res *pipeline.Result) {
	c := res.Categories
	fmt.Fprintf(w, "Regions: %d mapped, %d unmapped, %d conflict, %d reverse\n",
		len(c.Mapped), len(c.Unmapped), len(c.Conflict), len(c.Reverse))
	fmt.Fprintf(w, "Mapped: %.2f%%  Unmapped: %.2f%%\n",
		res.Report.Reference.FractionMapped, res.Report.Reference.FractionUnmapped)
	for _, p := range []string{
		res.Paths.ReferenceSummary,
		res.Paths.UnmappedSummary,
		res.Paths.MappedFASTA,
		res.Paths.UnmappedFASTA,
		res.Paths.ConflictFASTA,
	} {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

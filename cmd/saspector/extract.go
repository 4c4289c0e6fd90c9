package main

import (
	"github.com/spf13/cobra"

	"github.com/logt-kuleuven/saspector/internal/config"
	"github.com/logt-kuleuven/saspector/internal/pipeline"
)

func newExtractCmd(a *app) *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Summarize regions from an existing backbone table",
		Long: `Classify the rows of a progressiveMauve backbone table, extract the regions
from a single-record reference and write the region FASTA files and summary
tables. Use this to re-run the analysis without aligning again.`,
		Example: `  saspector extract -r ref.fasta -b results/alignment/GEN.backbone -p GEN -o rerun
  saspector extract -r ref.fasta -b GEN.backbone -p GEN -o rerun --flanking 50`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bindFlags(cmd, map[string]string{
				"flanking": config.KeyFlanking,
				"catalog":  config.KeyCatalog,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.setup()
			if err != nil {
				return err
			}
			opts.Flanking = cfg.Flanking

			runner := pipeline.NewRunner(nil, nil)
			runner.SetLogger(a.logger)
			closeCatalog, err := attachCatalog(runner, cfg)
			if err != nil {
				return err
			}
			defer closeCatalog()

			res, err := runner.Extract(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	addExtractFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Backbone, "backbone", "b", "", "progressiveMauve backbone table")
	_ = cmd.MarkFlagRequired("backbone")

	return cmd
}

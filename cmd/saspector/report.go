package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logt-kuleuven/saspector/internal/catalog"
	"github.com/logt-kuleuven/saspector/internal/config"
	"github.com/logt-kuleuven/saspector/internal/output"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [prefix]",
		Short: "Show runs recorded in a catalog",
		Long: `Without arguments, list the reference summary of every catalogued run.
With a prefix, print that run's reference summary followed by its unmapped
region table.`,
		Example: `  saspector report --catalog runs.duckdb
  saspector report --catalog runs.duckdb GEN`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bindFlags(cmd, map[string]string{"catalog": config.KeyCatalog})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.setup()
			if err != nil {
				return err
			}
			if cfg.Catalog == "" {
				return usageError{errors.New("no catalog configured (use --catalog or set catalog in ~/.saspector.yaml)")}
			}
			if _, err := os.Stat(cfg.Catalog); err != nil {
				return fmt.Errorf("catalog: %w", err)
			}

			store, err := catalog.Open(cfg.Catalog)
			if err != nil {
				return fmt.Errorf("opening catalog: %w", err)
			}
			defer store.Close()

			if len(args) == 0 {
				return listRuns(cmd.OutOrStdout(), store)
			}
			return showRun(cmd.OutOrStdout(), store, args[0], a.logger)
		},
	}

	cmd.Flags().String("catalog", "", "DuckDB run catalogue")

	return cmd
}

func listRuns(w io.Writer, store *catalog.Store) error {
	prefixes, err := store.Prefixes()
	if err != nil {
		return err
	}

	tw := output.NewTabWriter(w, output.CatalogColumns)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, p := range prefixes {
		run, err := store.LookupRun(p)
		if err != nil {
			return err
		}
		if err := tw.WriteCatalogRow(p, run.Summary); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func showRun(w io.Writer, store *catalog.Store, prefix string, logger *zap.Logger) error {
	run, err := store.LookupRun(prefix)
	if err != nil {
		return err
	}
	if !run.Reference.Matches() {
		logger.Warn("reference changed since the run was catalogued",
			zap.String("reference", run.Reference.Path))
	}

	fmt.Fprintf(w, "# %s  reference=%s  flanking=%d  created=%s\n",
		run.Prefix, run.Reference.Path, run.Flanking, run.CreatedAt.Format("2006-01-02 15:04:05"))

	ref := output.NewTabWriter(w, output.ReferenceColumns)
	if err := ref.WriteHeader(); err != nil {
		return err
	}
	if err := ref.WriteReference(run.Summary); err != nil {
		return err
	}
	if err := ref.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	unmapped := output.NewTabWriter(w, output.UnmappedColumns())
	if err := unmapped.WriteHeader(); err != nil {
		return err
	}
	for _, s := range run.Unmapped {
		if err := unmapped.WriteRegion(s); err != nil {
			return err
		}
	}
	return unmapped.Flush()
}

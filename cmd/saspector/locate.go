package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logt-kuleuven/saspector/internal/backbone"
	"github.com/logt-kuleuven/saspector/internal/output"
	"github.com/logt-kuleuven/saspector/internal/regions"
)

func newLocateCmd(a *app) *cobra.Command {
	var (
		backbonePath string
		assembly     bool
	)

	cmd := &cobra.Command{
		Use:   "locate <position>...",
		Short: "Report which classified regions contain a position",
		Long: `Classify a backbone table and print every mapped, unmapped or reverse
interval containing each queried reference position. Interval bounds are
inclusive and compared by magnitude.

Conflict intervals are assembly coordinates, so they are only searched with
--assembly, which treats every position as an assembly coordinate.`,
		Example: `  saspector locate -b results/alignment/GEN.backbone 15000
  saspector locate -b GEN.backbone 100 2500 48000
  saspector locate -b GEN.backbone --assembly 3200`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.setup(); err != nil {
				return err
			}

			positions := make([]int64, len(args))
			for i, arg := range args {
				pos, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return usageError{fmt.Errorf("invalid position %q", arg)}
				}
				positions[i] = pos
			}

			rows, err := backbone.Read(backbonePath)
			if err != nil {
				return fmt.Errorf("read backbone: %w", err)
			}
			c := regions.Classify(rows)
			idx := regions.NewIndex(c)
			if assembly {
				idx = regions.NewAssemblyIndex(c)
			}
			a.logger.Debug("built region index",
				zap.Int("rows", len(rows)),
				zap.Int("intervals", idx.Len()),
				zap.Bool("assembly", assembly))

			tw := output.NewTabWriter(cmd.OutOrStdout(), output.LocateColumns)
			if err := tw.WriteHeader(); err != nil {
				return err
			}
			for _, pos := range positions {
				hits := idx.Locate(pos)
				if len(hits) == 0 {
					a.logger.Info("position not covered by any region", zap.Int64("position", pos))
				}
				for _, h := range hits {
					if err := tw.WriteHit(pos, h); err != nil {
						return err
					}
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&backbonePath, "backbone", "b", "", "progressiveMauve backbone table")
	cmd.Flags().BoolVar(&assembly, "assembly", false, "Treat positions as assembly coordinates and search conflict intervals")
	_ = cmd.MarkFlagRequired("backbone")

	return cmd
}

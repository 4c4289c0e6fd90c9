// Package main provides the saspector command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/logt-kuleuven/saspector/internal/config"
	"github.com/logt-kuleuven/saspector/internal/pipeline"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		if isUsageError(err) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// usageError marks errors caused by bad invocation rather than bad data.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue usageError
	return errors.As(err, &ue) || errors.Is(err, pipeline.ErrInvalidOptions)
}

// app carries state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "saspector",
		Short: "Short-read Assembly inSpector",
		Long: `saspector aligns a short-read draft assembly against a complete reference
genome and reports the reference regions the assembly is missing, with GC
content and six-frame amino acid composition for every unmapped region.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(a.v, a.cfgFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default ~/.saspector.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newExtractCmd(a))
	cmd.AddCommand(newLocateCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// bindFlags binds command flags to config keys. Binding happens when the
// command runs so commands sharing a flag name do not override each other.
func (a *app) bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// setup loads the merged configuration and builds the logger.
func (a *app) setup() (config.Config, error) {
	cfg, err := config.Load(a.v)
	if err != nil {
		return cfg, usageError{err}
	}
	logger, err := newLogger(cfg, a.verbose)
	if err != nil {
		return cfg, fmt.Errorf("creating logger: %w", err)
	}
	a.logger = logger
	return cfg, nil
}

// newLogger builds a console logger on stderr at the configured level,
// or a development logger at debug level when verbose is set.
func newLogger(cfg config.Config, verbose bool) (*zap.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.DisableStacktrace = true
	if verbose {
		zc = zap.NewDevelopmentConfig()
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "saspector version %s (%s) built %s\n", version, commit, date)
		},
	}
}

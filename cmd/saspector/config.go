package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/logt-kuleuven/saspector/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage saspector configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.saspector.yaml.",
		Example: `  saspector config                                   # show all config
  saspector config set aligner.mauve /opt/mauve/progressiveMauve
  saspector config set flanking 100
  saspector config get catalog                       # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(a.v.AllSettings())
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# Config file: %s\n", used)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "# No config file found, showing defaults. Config file: ~/%s\n", config.FileName)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigGetCmd(a))

	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			// Parse boolean-like and integer values
			switch value {
			case "true", "yes", "on":
				a.v.Set(key, true)
			case "false", "no", "off":
				a.v.Set(key, false)
			default:
				if n, err := strconv.Atoi(value); err == nil {
					a.v.Set(key, n)
				} else {
					a.v.Set(key, value)
				}
			}

			if _, err := config.Load(a.v); err != nil {
				return usageError{err}
			}

			cfgFile := a.v.ConfigFileUsed()
			if cfgFile == "" {
				var err error
				if cfgFile, err = config.DefaultFile(); err != nil {
					return err
				}
			}

			if err := a.v.WriteConfigAs(cfgFile); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
			return nil
		},
	}
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.v.IsSet(args[0]) {
				return fmt.Errorf("key %q is not set", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.v.Get(args[0]))
			return nil
		},
	}
}

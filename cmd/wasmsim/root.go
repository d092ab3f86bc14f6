package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CosmWasm/wasmsim/app"
	"github.com/CosmWasm/wasmsim/x/wasm/contracts"
)

const (
	appName = "wasmsim"

	flagLogLevel    = "log_level"
	flagLogFormat   = "log_format"
	flagConfig      = "config"
	flagMetricsFile = "metrics-file"

	logFormatJSON  = "json"
	logFormatPlain = "plain"
)

// Version is set at build time
var Version = "dev"

type viperKey struct{}

// NewRootCmd creates the root command. The configuration is read in the pre-run hook and
// handed to the sub commands through the command context.
func NewRootCmd() *cobra.Command {
	defaults := app.DefaultConfig()
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Deterministic in-process chain simulator for contracts written in Go",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := interceptConfigs(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), viperKey{}, v))
			return nil
		},
	}
	rootCmd.SetContext(context.Background())

	flags := rootCmd.PersistentFlags()
	flags.String(flagLogLevel, zerolog.InfoLevel.String(), "The logging level (trace|debug|info|warn|error|fatal|panic|disabled)")
	flags.String(flagLogFormat, logFormatPlain, "The logging format (json|plain)")
	flags.String(flagConfig, "", "Config file (toml, yaml or json)")
	flags.String(flagMetricsFile, "", "Write prometheus metrics to this file after the run")
	flags.String(app.FlagChainID, defaults.ChainID, "The chain id contracts see")
	flags.Uint32(app.FlagMaxCallDepth, defaults.MaxCallDepth, "Deepest sub message nesting allowed")
	flags.Uint32(app.FlagMaxQueryStackSize, defaults.MaxQueryStackSize, "Deepest contract query nesting allowed")
	flags.Duration(app.FlagBlockInterval, defaults.BlockInterval, "Time added by every new block")
	flags.String(app.FlagBondedDenom, defaults.BondedDenom, "Denom of the staking token")
	flags.Bool(app.FlagAllowDuplicateCode, defaults.AllowDuplicateCode, "Accept code whose checksum is already stored")

	rootCmd.AddCommand(
		runCmd(),
		contractsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// interceptConfigs binds flags, environment and the optional config file into one viper
// instance. Flags take precedence over the environment, the environment over the file.
func interceptConfigs(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if file := v.GetString(flagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return v, nil
}

func viperFromCmd(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(viperKey{}).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}

// newLogger builds the logger from the log flags
func newLogger(v *viper.Viper, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flagLogLevel, err)
	}
	opts := []log.Option{log.LevelOption(level)}
	switch format := v.GetString(flagLogFormat); format {
	case logFormatJSON:
		opts = append(opts, log.OutputJSONOption())
	case logFormatPlain, "":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("%s: unknown format %q", flagLogFormat, format)
	}
	return log.NewLogger(out, opts...), nil
}

func contractsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "List the builtin contracts scenarios can store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range contracts.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, Version)
			return nil
		},
	}
}

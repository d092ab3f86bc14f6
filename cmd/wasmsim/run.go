package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/CosmWasm/wasmsim/app"
	wasmkeeper "github.com/CosmWasm/wasmsim/x/wasm/keeper"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.json>",
		Short: "Run a scenario against a fresh chain and print one json line per step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viperFromCmd(cmd)
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			scenario, err := ParseScenario(bz)
			if err != nil {
				return err
			}

			metricsFile := v.GetString(flagMetricsFile)
			var opts []app.Option
			reg := prometheus.NewRegistry()
			if metricsFile != "" {
				opts = append(opts, app.WithMetrics(wasmkeeper.PrometheusMetrics(reg, appName)))
			}
			simApp, err := app.NewAppFromOptions(logger, v, opts...)
			if err != nil {
				return err
			}
			if metricsFile != "" {
				reg.MustRegister(app.NewStoreCollector(appName, simApp))
			}

			runErr := newRunner(simApp, cmd.OutOrStdout()).Run(scenario)
			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return runErr
		},
	}
}

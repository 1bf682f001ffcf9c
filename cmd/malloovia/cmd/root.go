package cmd

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/malloovia/malloovia/internal/logger"
	"github.com/malloovia/malloovia/internal/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "malloovia",
	Short: "Two-phase MILP VM cost optimizer",
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Errorw("command failed", "error", err)
		os.Exit(1)
	}
}

// newEmitter registers malloovia's Prometheus metrics with a private
// registry and returns an Emitter bound to it. Each CLI invocation gets its
// own registry: there is no long-lived process to export it from, but
// routing every solve through the same Emitter keeps pkg/solve and pkg/phase
// instrumented the same way a server embedding this module would be.
func newEmitter() *metrics.Emitter {
	emitter, err := metrics.InitMetricsAndEmitter(prometheus.NewRegistry())
	if err != nil {
		logger.Log.Warnw("metrics registration failed, continuing uninstrumented", "error", err)
		return metrics.NewEmitter()
	}
	return emitter
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(solveCmd)
}

package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tsechapman/kmcluster/codec"
	"github.com/tsechapman/kmcluster/internal/config"
	"github.com/tsechapman/kmcluster/metrics"
)

// app carries state shared by every subcommand.
type app struct {
	configPath  string
	dataPath    string
	k           int
	iterations  int
	seed        int64
	logLevel    string
	metricsFile string
	jsonOutput  bool

	cfg       *config.Config
	registry  *prometheus.Registry
	collector *metrics.PrometheusCollector
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "kmcluster",
		Short: "K-means clustering over a CSV vector dataset",
		Long: `kmcluster keeps a CSV dataset of identified vectors, trains k-means
centroids over it and assigns new vectors to the nearest centroid,
reporting the other members of that cluster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.writeMetrics()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.dataPath, "data", "", "dataset path (object name on remote backends)")
	pf.IntVarP(&a.k, "k", "k", 0, "number of clusters")
	pf.IntVar(&a.iterations, "iterations", 0, "training passes")
	pf.Int64Var(&a.seed, "seed", 0, "initialization seed (0 seeds from the clock)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	pf.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		newTrainCmd(a),
		newAssignCmd(a),
		newListCmd(a),
		newDedupeCmd(a),
	)
	return rootCmd
}

// setup loads the layered configuration and applies flags that were set
// explicitly on the command line.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Path = a.dataPath
	}
	if flags.Changed("k") {
		cfg.Cluster.K = a.k
	}
	if flags.Changed("iterations") {
		cfg.Cluster.Iterations = a.iterations
	}
	if flags.Changed("seed") {
		cfg.Cluster.Seed = a.seed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.registry = prometheus.NewRegistry()
	a.collector = metrics.NewPrometheusCollector(a.registry)
	return nil
}

func (a *app) writeMetrics() error {
	if a.cfg == nil || a.cfg.Metrics.File == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.Metrics.File, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// print writes v as JSON when --json is set and falls back to text otherwise.
func (a *app) print(w io.Writer, v any, text func(io.Writer) error) error {
	if a.jsonOutput {
		return codec.Write(w, codec.Default, v)
	}
	return text(w)
}

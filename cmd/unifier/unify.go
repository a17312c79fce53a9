package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"unifier/internal/config"
	"unifier/internal/logger"
	"unifier/internal/metrics"
	"unifier/internal/unify"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"schema":       "schema",
	"output":       "output",
	"on-error":     "on_error",
	"providers":    "providers",
	"metrics-file": "metrics_file",
	"log-level":    "log.level",
	"log-json":     "log.json",
	"log-source":   "log.source",
}

func UnifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unify [files...]",
		Short: "Normalize input files into one CSV",
		Long: `Normalize the records of every input file into the target schema and
write them, in input order, to a single CSV file with one header row.

Settings come from defaults, the --config file, UNIFIER_* environment
variables and flags, in increasing precedence.`,
		RunE: runUnify,
	}

	flags := cmd.Flags()
	flags.String("config", "", "YAML configuration file")
	flags.String("schema", "", "target schema")
	flags.StringP("output", "o", "", "output file name; the extension is replaced with .csv")
	flags.String("on-error", "", "what to do with a record that fails: abort or skip")
	flags.String("metrics-file", "", "write Prometheus counters to this file after the run")

	return cmd
}

func runUnify(cmd *cobra.Command, args []string) error {
	overrides := map[string]any{}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	if len(args) > 0 {
		overrides["inputs"] = args
	}

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.NewLoader().Load(cmd.Context(), path, overrides)
	if err != nil {
		return err
	}

	logger.SetupLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Source)
	ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())

	policy, err := unify.ParsePolicy(cfg.OnError)
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(ctx, cfg.Providers)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
	}

	u, err := unify.New(pipeline, cfg.Schema, unify.WithPolicy(policy), unify.WithOutput(cfg.Output), unify.WithMetrics(m))
	if err != nil {
		return err
	}

	report, runErr := u.Unify(ctx, cfg.Inputs...)

	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.FromContext(ctx).Error("Metrics not written", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	for _, d := range report.Diagnostics.Warnings {
		fmt.Fprintln(out, "skipped", d.String())
	}

	fmt.Fprintf(out, "wrote %d records from %d files to %s (%d skipped)\n",
		report.Rows, len(report.Files), report.Output, report.Skipped())

	return nil
}

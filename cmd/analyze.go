package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rentalfriction/app"
	"github.com/kilianp07/rentalfriction/core/analysis"
	"github.com/kilianp07/rentalfriction/infra/logger"
	"github.com/kilianp07/rentalfriction/pkg/export"
)

type analyzeFlags struct {
	dataset string
	scope   string
	format  string
}

func newAnalyzeCmd(cfgPath *string) *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis against the dataset and print the result",
	}
	cmd.PersistentFlags().StringVar(&f.dataset, "dataset", "", "dataset file, overrides dataset.path")
	cmd.PersistentFlags().StringVar(&f.scope, "scope", "all", "check-in scope: all, mobile or connect")
	cmd.PersistentFlags().StringVarP(&f.format, "format", "o", "table", "output format: table, json or csv")

	overview := &cobra.Command{
		Use:   "overview",
		Short: "Summarise delays and friction",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIAnalyzer(*cfgPath, f)
			if err != nil {
				return err
			}
			rep, err := a.Overview(cmd.Context(), f.scope)
			if err != nil {
				return err
			}
			return export.WriteOverview(cmd.OutOrStdout(), f.format, rep)
		},
	}

	var threshold, start, end, step float64
	simulate := &cobra.Command{
		Use:   "simulate",
		Short: "Sweep minimum-buffer thresholds and evaluate one exactly",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIAnalyzer(*cfgPath, f)
			if err != nil {
				return err
			}
			req := analysis.SimulationRequest{Scope: f.scope}
			flags := cmd.Flags()
			if flags.Changed("threshold") {
				req.Threshold = &threshold
			}
			if flags.Changed("start") {
				req.Start = &start
			}
			if flags.Changed("end") {
				req.End = &end
			}
			if flags.Changed("step") {
				req.Step = &step
			}
			rep, err := a.RunSimulation(cmd.Context(), req)
			if err != nil {
				return err
			}
			return export.WriteSimulation(cmd.OutOrStdout(), f.format, rep)
		},
	}
	simulate.Flags().Float64VarP(&threshold, "threshold", "t", 0, "threshold in minutes (default from simulation.default_threshold)")
	simulate.Flags().Float64Var(&start, "start", 0, "first sweep threshold in minutes")
	simulate.Flags().Float64Var(&end, "end", 0, "last sweep threshold in minutes")
	simulate.Flags().Float64Var(&step, "step", 0, "sweep step in minutes")

	cmd.AddCommand(overview, simulate)
	return cmd
}

func newCLIAnalyzer(cfgPath string, f analyzeFlags) (*analysis.Analyzer, error) {
	logger.SetOutput(os.Stderr)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if f.dataset != "" {
		cfg.Dataset.Path = f.dataset
		cfg.Dataset.Format = ""
		if err := cfg.Dataset.Validate(); err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	sink, err := app.NewMetricsSink(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewAnalyzer(cfg, sink), nil
}

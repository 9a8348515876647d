// Command waitlab runs the coffee shop wait time analysis: it loads the
// transaction survey, cleans it, expands the pairwise-interaction design,
// fits the log-linear baseline and the cross-validated Lasso and Ridge
// models, and writes the report artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cupstack/waitlab/dataset"
	"github.com/cupstack/waitlab/pkg/config"
	"github.com/cupstack/waitlab/pkg/log"
	"github.com/cupstack/waitlab/report"
	"github.com/cupstack/waitlab/study"
)

var (
	cfg        config.Config
	configPath string
	dataPath   string
	outputDir  string
	seed       int64
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "waitlab",
		Short: "Coffee shop wait time analysis",
		Long: `waitlab models queue wait times from the shop's transaction survey:
a log-linear least-squares baseline over all pairwise interactions, then
Lasso and Ridge fits with the penalty chosen by k-fold cross-validation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis and write every report artifact",
		RunE:  runStudy,
	}

	describeCmd = &cobra.Command{
		Use:   "describe",
		Short: "Load and clean the survey, then print descriptive statistics",
		RunE:  runDescribe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default config.yaml, or WAITLAB_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"input CSV, overriding the configured path")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "",
		"output directory, overriding the configured one")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0,
		"random seed, overriding the configured one")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn or error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(describeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file, applies flag overrides, and installs
// the logging provider at the configured level.
func loadConfig(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		path = os.Getenv("WAITLAB_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log.SetProvider(log.NewZerologProvider(log.ToLogLevel(cfg.LogLevel)))
	return nil
}

func runStudy(cmd *cobra.Command, args []string) error {
	res, err := study.Run(study.Options{
		DataPath:      cfg.DataPath,
		Seed:          cfg.Seed,
		TrainFraction: cfg.TrainFraction,
		Folds:         cfg.Folds,
		PathLength:    cfg.PathLength,
		PathRatio:     cfg.PathRatio,
		RidgeTopN:     cfg.RidgeTopN,
	})
	if err != nil {
		return err
	}

	if err := report.Write(cfg.OutputDir, res); err != nil {
		return err
	}

	fmt.Printf("Baseline pseudo-R² (holdout): %.4f\n", res.Baseline.PseudoR2)
	fmt.Printf("Lasso pseudo-R² (CV): %.4f at lambda %.6g with %d active terms\n",
		res.Lasso.PseudoR2, res.Lasso.CV.SelectedLambda(), res.Lasso.NonzeroCount)
	fmt.Printf("Ridge pseudo-R² (CV): %.4f at lambda %.6g\n",
		res.Ridge.PseudoR2, res.Ridge.CV.SelectedLambda())
	fmt.Printf("Artifacts written to %s\n", cfg.OutputDir)
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	table, err := dataset.ReadCSV(cfg.DataPath, study.WaitSchema())
	if err != nil {
		return err
	}
	cleaned, err := dataset.Clean(table, dataset.CleanOptions{
		DropPrefix:   study.BaristaPrefix,
		Categoricals: study.CategoricalColumns(),
	})
	if err != nil {
		return err
	}

	nums, cats, err := report.Describe(cleaned)
	if err != nil {
		return err
	}

	fmt.Printf("%d rows, %d columns after cleaning\n\n", cleaned.NumRows(), cleaned.NumCols())
	for _, s := range nums {
		fmt.Printf("%s: count=%d mean=%.3f std=%.3f min=%.3f q1=%.3f median=%.3f q3=%.3f max=%.3f\n",
			s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
	for _, s := range cats {
		fmt.Printf("%s:", s.Column)
		for _, lv := range s.Levels {
			fmt.Printf(" %s=%d", lv.Level, lv.Count)
		}
		fmt.Println()
	}
	return nil
}

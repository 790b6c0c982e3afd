package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/logging"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagScenarios []string
	flagMode      string
	flagDataset   string
	flagDB        string
	flagQuiet     bool
	flagLogLevel  string
)

// Populated by prepare before any command runs.
var (
	appCfg config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Scenario cash flow explorer",
	Long: "Compare purchase-plan scenarios quarter by quarter, either as raw\n" +
		"payments or as running (cumulative) totals.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&flagScenarios, "scenario", "s", nil,
		"Scenario to show, by exact name or 1-based index (repeatable; default: all)")
	rootCmd.PersistentFlags().StringVarP(&flagMode, "mode", "m", "", "View mode: raw or cumulative")
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "Load scenarios from a TOML file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Load scenarios from a SQLite dataset store")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// prepare loads .env, the config file and the logger.
func prepare(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.ConfigPath(), err)
	}

	level := cfg.Log.Level
	switch {
	case cmd.Flags().Changed("log-level"):
		level = flagLogLevel
	case flagQuiet:
		level = "warn"
	}
	log, err := logging.New(logging.Options{Level: level, JSON: cfg.Log.JSON, Out: os.Stderr})
	if err != nil {
		return err
	}

	appCfg = cfg
	logger = log
	return nil
}

// datasetSource picks where scenarios come from. Flags beat the config
// file; within each, a SQLite store beats a TOML file. With nothing set
// the built-in dataset is used.
func datasetSource() pipeline.Source {
	switch {
	case flagDB != "":
		return pipeline.Source{DBPath: flagDB}
	case flagDataset != "":
		return pipeline.Source{FilePath: flagDataset}
	case appCfg.General.DatasetDB != "":
		return pipeline.Source{DBPath: appCfg.General.DatasetDB}
	case appCfg.General.DatasetFile != "":
		return pipeline.Source{FilePath: appCfg.General.DatasetFile}
	}
	return pipeline.Source{}
}

// loadData is the shared dataset loading path used by all commands.
func loadData() (*pipeline.LoadResult, error) {
	res, err := pipeline.Load(datasetSource())
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("origin", res.Origin).
		Int("scenarios", res.Dataset.Len()).
		Str("fingerprint", res.Dataset.Fingerprint()).
		Msg("dataset loaded")
	return res, nil
}

// viewMode resolves --mode, falling back to the configured default.
func viewMode() (model.ViewMode, error) {
	if flagMode != "" {
		return model.ParseViewMode(flagMode)
	}
	return appCfg.Mode()
}

// selection resolves --scenario flags against ds. Without flags the
// configured default applies, and without that every scenario.
func selection(ds *dataset.Dataset) model.Selection {
	args := flagScenarios
	if len(args) == 0 {
		args = appCfg.General.DefaultScenarios
	}
	if len(args) == 0 {
		return model.NewSelection(ds.Names()...)
	}

	sel, unknown := pipeline.ParseSelection(args, ds)
	for _, name := range unknown {
		logger.Warn().Str("scenario", name).Msg("unknown scenario, ignoring")
	}
	return sel
}

// buildView loads the dataset and derives the view for the current flags.
func buildView() (*pipeline.LoadResult, model.View, error) {
	res, err := loadData()
	if err != nil {
		return nil, model.View{}, err
	}
	mode, err := viewMode()
	if err != nil {
		return nil, model.View{}, err
	}
	return res, pipeline.BuildView(res.Dataset, selection(res.Dataset), mode), nil
}

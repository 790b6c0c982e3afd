package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/pipeline"
	"github.com/theirongolddev/cashflow/internal/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var flagSaveDB string

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect, validate and store the scenario dataset",
}

var datasetValidateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Check that every scenario shares one timeline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDatasetValidate,
}

var datasetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active dataset as TOML",
	RunE:  runDatasetShow,
}

var datasetSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the active dataset into a SQLite dataset store",
	RunE:  runDatasetSave,
}

var datasetPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where cashflow looks for its dataset",
	RunE:  runDatasetPath,
}

func init() {
	datasetSaveCmd.Flags().StringVar(&flagSaveDB, "to", "", "Store path (default: "+store.DefaultPath()+")")

	datasetCmd.AddCommand(datasetValidateCmd, datasetShowCmd, datasetSaveCmd, datasetPathCmd)
	rootCmd.AddCommand(datasetCmd)
}

func runDatasetValidate(_ *cobra.Command, args []string) error {
	origin := datasetSource().Origin()
	var (
		ds  *dataset.Dataset
		err error
	)
	if len(args) == 1 {
		origin = "file:" + args[0]
		ds, err = dataset.LoadFile(args[0])
	} else {
		var res *pipeline.LoadResult
		res, err = pipeline.Load(datasetSource())
		if res != nil {
			ds = res.Dataset
		}
	}

	bad := color.New(color.FgRed, color.Bold)
	good := color.New(color.FgGreen, color.Bold)

	if err != nil {
		var cfgErr *dataset.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Printf("  %s %s\n", bad.Sprint("INVALID"), origin)
			if cfgErr.Scenario != "" {
				fmt.Printf("    scenario: %s\n", cfgErr.Scenario)
			}
			fmt.Printf("    reason:   %s\n", cfgErr.Reason)
			return errors.New("dataset is invalid")
		}
		fmt.Printf("  %s %s\n", bad.Sprint("UNREADABLE"), origin)
		return err
	}

	fmt.Printf("  %s %s\n", good.Sprint("OK"), origin)
	fmt.Printf("    %d scenarios, %d periods, fingerprint %s\n", ds.Len(), len(ds.Timeline()), ds.Fingerprint())
	return nil
}

func runDatasetShow(_ *cobra.Command, _ []string) error {
	res, err := loadData()
	if err != nil {
		return err
	}
	return res.Dataset.Encode(os.Stdout)
}

func runDatasetSave(_ *cobra.Command, _ []string) error {
	path := flagSaveDB
	if path == "" {
		path = store.DefaultPath()
	}

	res, err := loadData()
	if err != nil {
		return err
	}

	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.SaveDataset(res.Dataset); err != nil {
		return err
	}
	version, err := st.SchemaVersion()
	if err != nil {
		return err
	}
	stored, err := st.ScenarioCount()
	if err != nil {
		return err
	}

	fmt.Printf("  Saved %d scenarios from %s to %s (schema v%d)\n", stored, res.Origin, path, version)
	fmt.Printf("  Use it with: cashflow --db %s\n", path)
	return nil
}

func runDatasetPath(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Active source:  %s\n", datasetSource().Origin())
	fmt.Printf("  Default store:  %s\n", store.DefaultPath())
	fmt.Printf("  Config file:    %s\n", config.ConfigPath())
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/cashflow/internal/export"
	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current view as text, JSON, CSV or Parquet",
	Example: `  cashflow export --format csv --mode cumulative
  cashflow export -s 1 -s 3 --format parquet --output plan.parquet`,
	RunE: runExport,
}

func init() {
	names := lo.Map(export.Formats, func(f export.Format, _ int) string { return string(f) })
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "Output format: "+strings.Join(names, ", "))
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	_, view, err := buildView()
	if err != nil {
		return err
	}

	if flagExportOutput == "" {
		if format.Binary() && isatty.IsTerminal(os.Stdout.Fd()) {
			return errors.New("parquet output is binary: use --output FILE or redirect stdout")
		}
		return export.Write(os.Stdout, view, format)
	}

	if err := writeExportFile(flagExportOutput, view, format); err != nil {
		return err
	}
	logger.Info().
		Str("format", string(format)).
		Str("path", flagExportOutput).
		Int("scenarios", len(view.Series)).
		Msg("export written")
	return nil
}

// writeExportFile writes view to path; a failed close is returned too.
func writeExportFile(path string, view model.View, format export.Format) (err error) {
	var f *os.File
	f, err = os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	return export.Write(f, view, format)
}

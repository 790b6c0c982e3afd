// Package export writes a computed view as JSON, CSV, a plain text grid or
// Parquet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format names an export encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatParquet}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatJSON, FormatCSV, FormatParquet:
		return f, nil
	case "table", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want one of %v)", s, Formats)
	}
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatParquet
}

// Write dispatches to the writer for format.
func Write(w io.Writer, view model.View, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		err = WriteJSON(w, view)
	case FormatCSV:
		err = WriteCSV(w, view)
	case FormatParquet:
		err = WriteParquet(w, view)
	default:
		err = WriteText(w, view)
	}
	if err != nil {
		return fmt.Errorf("writing %s export: %w", format, err)
	}
	return nil
}

// WriteJSON writes the full view: mode, empty flag, series and table.
func WriteJSON(w io.Writer, view model.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// WriteCSV writes the pivot table with one row per period. Missing cells
// are empty; amounts are unformatted.
func WriteCSV(w io.Writer, view model.View) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(view.Table.Columns)+1)
	header = append(header, "Period")
	for _, c := range view.Table.Columns {
		header = append(header, c.ScenarioName)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for r, label := range view.Table.RowLabels {
		row := make([]string, 0, len(header))
		row = append(row, label)
		for c := range view.Table.Columns {
			cell := ""
			if v, ok := view.Table.Cell(r, c); ok {
				cell = strconv.FormatFloat(v, 'f', -1, 64)
			}
			row = append(row, cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteText renders the pivot table as a plain grid with currency
// formatting. Raw views get a footer with each scenario's net total.
func WriteText(w io.Writer, view model.View) error {
	if view.Empty() {
		_, err := fmt.Fprintln(w, "Please select at least one scenario.")
		return err
	}

	table := tablewriter.NewWriter(w)

	headers := []string{"Period"}
	for _, c := range view.Table.Columns {
		headers = append(headers, c.ScenarioName)
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft}
	})

	data := make([][]string, len(view.Table.RowLabels))
	for r, label := range view.Table.RowLabels {
		row := []string{label}
		for _, c := range view.Table.Columns {
			row = append(row, cli.FormatCell(c.Values[r]))
		}
		data[r] = row
	}
	if err := table.Bulk(data); err != nil {
		return err
	}

	if view.Mode == model.ModeRaw {
		footer := []string{"Net"}
		for _, s := range view.Series {
			var net float64
			for _, p := range s.Periods {
				net += p.Value
			}
			footer = append(footer, cli.FormatCurrency(net))
		}
		table.Footer(footer)
	}

	return table.Render()
}

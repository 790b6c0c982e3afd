package export

import (
	"io"

	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/parquet-go/parquet-go"
)

// PeriodRow is one (scenario, period) cell in long format. Value is null
// when the scenario has no period with that label.
type PeriodRow struct {
	Scenario string   `parquet:"scenario,snappy,dict"`
	Position int32    `parquet:"position,snappy"`
	Period   string   `parquet:"period,snappy,dict"`
	Mode     string   `parquet:"mode,snappy,dict"`
	Value    *float64 `parquet:"value,optional,snappy"`
}

// Rows flattens the view's table into long-format rows, scenario-major.
func Rows(view model.View) []PeriodRow {
	rows := make([]PeriodRow, 0, len(view.Table.Columns)*len(view.Table.RowLabels))
	for _, c := range view.Table.Columns {
		for r, label := range view.Table.RowLabels {
			rows = append(rows, PeriodRow{
				Scenario: c.ScenarioName,
				Position: int32(r),
				Period:   label,
				Mode:     view.Mode.String(),
				Value:    c.Values[r],
			})
		}
	}
	return rows
}

// WriteParquet writes the view in long format.
func WriteParquet(w io.Writer, view model.View) error {
	writer := parquet.NewGenericWriter[PeriodRow](w)
	if _, err := writer.Write(Rows(view)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/export"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"
)

func resetFlags(t *testing.T) {
	t.Helper()
	oldCfg, oldDB, oldFile, oldScen, oldMode := appCfg, flagDB, flagDataset, flagScenarios, flagMode
	t.Cleanup(func() {
		appCfg, flagDB, flagDataset, flagScenarios, flagMode = oldCfg, oldDB, oldFile, oldScen, oldMode
	})
	appCfg = config.DefaultConfig()
	flagDB, flagDataset, flagScenarios, flagMode = "", "", nil, ""
}

func TestDatasetSourcePrecedence(t *testing.T) {
	resetFlags(t)

	if got := datasetSource(); got != (pipeline.Source{}) {
		t.Fatalf("no flags or config: got %+v, want embedded", got)
	}

	appCfg.General.DatasetFile = "cfg.toml"
	appCfg.General.DatasetDB = "cfg.db"
	if got := datasetSource(); got.DBPath != "cfg.db" {
		t.Fatalf("config db should beat config file, got %+v", got)
	}

	flagDataset = "flag.toml"
	if got := datasetSource(); got.FilePath != "flag.toml" || got.DBPath != "" {
		t.Fatalf("--dataset should beat config, got %+v", got)
	}

	flagDB = "flag.db"
	if got := datasetSource(); got.DBPath != "flag.db" {
		t.Fatalf("--db should beat --dataset, got %+v", got)
	}
}

func TestSelectionDefaults(t *testing.T) {
	resetFlags(t)
	ds, err := dataset.Default()
	if err != nil {
		t.Fatal(err)
	}
	names := ds.Names()

	if got := selection(ds); len(got) != 3 {
		t.Fatalf("default selection = %v, want all three", got)
	}

	appCfg.General.DefaultScenarios = []string{names[2]}
	if got := selection(ds); len(got) != 1 || got[0] != names[2] {
		t.Fatalf("configured selection = %v, want [%s]", got, names[2])
	}

	flagScenarios = []string{"1", "missing"}
	if got := selection(ds); len(got) != 1 || got[0] != names[0] {
		t.Fatalf("flag selection = %v, want [%s]", got, names[0])
	}
}

func TestPivotTableNetFooter(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatal(err)
	}
	view := pipeline.BuildView(ds, model.NewSelection(ds.Names()...), model.ModeRaw)

	tbl := pivotTable(view)
	if len(tbl.Headers) != 4 {
		t.Fatalf("headers = %v, want Period + 3 scenarios", tbl.Headers)
	}
	// 20 periods, separator, net row
	if len(tbl.Rows) != 22 {
		t.Fatalf("rows = %d, want 22", len(tbl.Rows))
	}
	net := tbl.Rows[21]
	want := []string{"Net", "$710,000", "$702,000", "$1,174,000"}
	for i := range want {
		if net[i] != want[i] {
			t.Fatalf("net row = %v, want %v", net, want)
		}
	}

	cum := pivotTable(pipeline.BuildView(ds, model.NewSelection(ds.Names()[0]), model.ModeCumulative))
	if len(cum.Rows) != 20 {
		t.Fatalf("cumulative rows = %d, want 20 with no footer", len(cum.Rows))
	}
	if cum.Rows[10][1] != "$258,000" {
		t.Fatalf("CY2026 Q3 cumulative = %s, want $258,000", cum.Rows[10][1])
	}
}

func TestViewModeFlag(t *testing.T) {
	resetFlags(t)
	if m, err := viewMode(); err != nil || m != model.ModeRaw {
		t.Fatalf("default mode = %v, %v", m, err)
	}
	flagMode = "cum"
	if m, err := viewMode(); err != nil || m != model.ModeCumulative {
		t.Fatalf("--mode cum = %v, %v", m, err)
	}
	flagMode = "sideways"
	if _, err := viewMode(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSelectionConfigIndex(t *testing.T) {
	resetFlags(t)
	ds, err := dataset.Default()
	if err != nil {
		t.Fatal(err)
	}

	appCfg.General.DefaultScenarios = []string{"2"}
	if got := selection(ds); len(got) != 1 || got[0] != ds.Names()[1] {
		t.Fatalf("configured index selection = %v, want [%s]", got, ds.Names()[1])
	}

	appCfg.General.DefaultScenarios = []string{"bogus"}
	if got := selection(ds); got == nil || len(got) != 0 {
		t.Fatalf("unknown configured default = %#v, want empty non-nil selection", got)
	}
}

func TestWriteExportFile(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatal(err)
	}
	view := pipeline.BuildView(ds, model.NewSelection(ds.Names()[0]), model.ModeCumulative)

	path := filepath.Join(t.TempDir(), "plan.csv")
	if err := writeExportFile(path, view, export.FormatCSV); err != nil {
		t.Fatalf("writeExportFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 21 {
		t.Fatalf("csv lines = %d, want header + 20", len(lines))
	}
	if !strings.HasSuffix(lines[20], ",710000") {
		t.Fatalf("last row = %q, want cumulative total 710000", lines[20])
	}

	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "plan.csv")
	if err := writeExportFile(missing, view, export.FormatCSV); err == nil || !strings.Contains(err.Error(), "creating") {
		t.Fatalf("writeExportFile into missing dir = %v, want creating error", err)
	}
}

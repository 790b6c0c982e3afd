// Package dataset holds the immutable scenario dataset and its loaders.
package dataset

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

//go:embed default.toml
var defaultTOML []byte

// Meta describes where the numbers came from.
type Meta struct {
	Title    string `toml:"title"`
	Source   string `toml:"source,omitempty"`
	Currency string `toml:"currency,omitempty"`
}

// ConfigError reports a dataset that violates its structural invariants.
// It is fatal at load time.
type ConfigError struct {
	Scenario string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Scenario == "" {
		return "invalid dataset: " + e.Reason
	}
	return fmt.Sprintf("invalid dataset: scenario %q: %s", e.Scenario, e.Reason)
}

// Dataset is the validated, read-only set of scenarios. All scenarios share
// one timeline. Safe for concurrent use.
type Dataset struct {
	meta        Meta
	scenarios   []model.Scenario
	index       map[string]int
	timeline    []string
	fingerprint string
}

// New validates scenarios and builds a dataset. The input slice is copied.
func New(meta Meta, scenarios []model.Scenario) (*Dataset, error) {
	if len(scenarios) == 0 {
		return nil, &ConfigError{Reason: "no scenarios defined"}
	}

	names := lo.Map(scenarios, func(s model.Scenario, _ int) string { return s.Name })
	for _, s := range scenarios {
		if s.Name == "" {
			return nil, &ConfigError{Reason: "scenario with empty name"}
		}
	}
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return nil, &ConfigError{Scenario: dups[0], Reason: "duplicate scenario name"}
	}

	timeline := scenarios[0].Labels()
	if len(timeline) == 0 {
		return nil, &ConfigError{Scenario: scenarios[0].Name, Reason: "empty timeline"}
	}
	if dups := lo.FindDuplicates(timeline); len(dups) > 0 {
		return nil, &ConfigError{Scenario: scenarios[0].Name, Reason: fmt.Sprintf("duplicate period label %q", dups[0])}
	}

	for _, s := range scenarios[1:] {
		labels := s.Labels()
		if len(labels) != len(timeline) {
			return nil, &ConfigError{
				Scenario: s.Name,
				Reason:   fmt.Sprintf("timeline has %d periods, expected %d", len(labels), len(timeline)),
			}
		}
		for i := range labels {
			if labels[i] != timeline[i] {
				return nil, &ConfigError{
					Scenario: s.Name,
					Reason:   fmt.Sprintf("period %d is %q, expected %q", i+1, labels[i], timeline[i]),
				}
			}
		}
	}

	d := &Dataset{
		meta:      meta,
		scenarios: lo.Map(scenarios, func(s model.Scenario, _ int) model.Scenario { return s.Clone() }),
		index:     make(map[string]int, len(scenarios)),
		timeline:  timeline,
	}
	for i, n := range names {
		d.index[n] = i
	}
	d.fingerprint = d.computeFingerprint()
	return d, nil
}

// Default returns the embedded FY27 purchase-plan dataset.
func Default() (*Dataset, error) {
	return Parse(defaultTOML)
}

// LoadFile reads a dataset from a TOML file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

type fileScenario struct {
	Name     string    `toml:"name"`
	Timeline []string  `toml:"timeline,omitempty"`
	Values   []float64 `toml:"values"`
}

type fileFormat struct {
	Meta
	Timeline  []string       `toml:"timeline"`
	Scenarios []fileScenario `toml:"scenario"`
}

// Parse decodes the TOML dataset format. A scenario without its own
// timeline uses the top-level one.
func Parse(data []byte) (*Dataset, error) {
	var f fileFormat
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	scenarios := make([]model.Scenario, 0, len(f.Scenarios))
	for _, fs := range f.Scenarios {
		timeline := fs.Timeline
		if len(timeline) == 0 {
			timeline = f.Timeline
		}
		if len(timeline) == 0 {
			return nil, &ConfigError{Scenario: fs.Name, Reason: "no timeline"}
		}
		if len(fs.Values) != len(timeline) {
			return nil, &ConfigError{
				Scenario: fs.Name,
				Reason:   fmt.Sprintf("%d values for %d periods", len(fs.Values), len(timeline)),
			}
		}
		s := model.Scenario{Name: fs.Name, Periods: make([]model.Period, len(timeline))}
		for i, label := range timeline {
			s.Periods[i] = model.Period{Label: label, Value: fs.Values[i]}
		}
		scenarios = append(scenarios, s)
	}

	return New(f.Meta, scenarios)
}

// Encode writes the dataset in the same TOML format Parse reads.
func (d *Dataset) Encode(w io.Writer) error {
	f := fileFormat{
		Meta:      d.meta,
		Timeline:  d.Timeline(),
		Scenarios: make([]fileScenario, len(d.scenarios)),
	}
	for i, s := range d.scenarios {
		f.Scenarios[i] = fileScenario{Name: s.Name, Values: s.Values()}
	}
	return toml.NewEncoder(w).Encode(f)
}

// Meta returns the dataset's descriptive metadata.
func (d *Dataset) Meta() Meta { return d.meta }

// Len returns the number of scenarios.
func (d *Dataset) Len() int { return len(d.scenarios) }

// Scenarios returns every scenario in insertion order.
func (d *Dataset) Scenarios() []model.Scenario {
	return lo.Map(d.scenarios, func(s model.Scenario, _ int) model.Scenario { return s.Clone() })
}

// Names returns the scenario names in insertion order.
func (d *Dataset) Names() []string {
	return lo.Map(d.scenarios, func(s model.Scenario, _ int) string { return s.Name })
}

// Get looks up a scenario by exact name.
func (d *Dataset) Get(name string) (model.Scenario, bool) {
	i, ok := d.index[name]
	if !ok {
		return model.Scenario{}, false
	}
	return d.scenarios[i].Clone(), true
}

// Position returns the insertion index of name, or -1.
func (d *Dataset) Position(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// Timeline returns the shared period labels.
func (d *Dataset) Timeline() []string {
	out := make([]string, len(d.timeline))
	copy(out, d.timeline)
	return out
}

// Fingerprint identifies the dataset contents. Two datasets with the same
// metadata, names, labels and values share a fingerprint.
func (d *Dataset) Fingerprint() string { return d.fingerprint }

func (d *Dataset) computeFingerprint() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\x00%s\x00%s\x00", d.meta.Title, d.meta.Source, d.meta.Currency)
	for _, s := range d.scenarios {
		buf.WriteString(s.Name)
		buf.WriteByte(0)
		for _, p := range s.Periods {
			fmt.Fprintf(&buf, "%s=%x;", p.Label, math.Float64bits(p.Value))
		}
		buf.WriteByte('\n')
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:8])
}

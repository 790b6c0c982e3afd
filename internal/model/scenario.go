package model

import (
	"fmt"
	"strings"
)

// Period is one quarter of a scenario's projection.
type Period struct {
	Label string  `json:"label" toml:"label"`
	Value float64 `json:"value" toml:"value"`
}

// Scenario is a named cash-flow projection over the shared timeline.
type Scenario struct {
	Name    string
	Periods []Period
}

// Labels returns the scenario's period labels in sequence order.
func (s Scenario) Labels() []string {
	out := make([]string, len(s.Periods))
	for i, p := range s.Periods {
		out[i] = p.Label
	}
	return out
}

// Values returns the scenario's raw amounts in sequence order.
func (s Scenario) Values() []float64 {
	out := make([]float64, len(s.Periods))
	for i, p := range s.Periods {
		out[i] = p.Value
	}
	return out
}

// Clone returns a deep copy so callers cannot mutate shared dataset state.
func (s Scenario) Clone() Scenario {
	periods := make([]Period, len(s.Periods))
	copy(periods, s.Periods)
	return Scenario{Name: s.Name, Periods: periods}
}

// Selection is the set of scenario names a user chose to compare.
// Order carries no meaning; display order always follows the dataset.
type Selection []string

// NewSelection builds a selection, trimming whitespace and dropping blanks.
func NewSelection(names ...string) Selection {
	sel := make(Selection, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			sel = append(sel, n)
		}
	}
	return sel
}

// Contains reports whether name was selected.
func (s Selection) Contains(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// ViewMode picks per-period or running-total values.
type ViewMode int

const (
	ModeRaw ViewMode = iota
	ModeCumulative
)

// Modes lists every view mode in display order.
var Modes = []ViewMode{ModeRaw, ModeCumulative}

// String returns the short machine name.
func (m ViewMode) String() string {
	if m == ModeCumulative {
		return "cumulative"
	}
	return "raw"
}

// Label returns the human-readable name shown in titles and toggles.
func (m ViewMode) Label() string {
	if m == ModeCumulative {
		return "Cumulative Cash Flow"
	}
	return "Quarterly Cash Flow"
}

// Toggle flips between the two modes.
func (m ViewMode) Toggle() ViewMode {
	if m == ModeCumulative {
		return ModeRaw
	}
	return ModeCumulative
}

// ParseViewMode accepts the machine names plus a few aliases.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw", "quarterly", "period":
		return ModeRaw, nil
	case "cumulative", "cum", "running":
		return ModeCumulative, nil
	default:
		return ModeRaw, fmt.Errorf("unknown view mode %q (want raw or cumulative)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ViewMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ViewMode) UnmarshalText(b []byte) error {
	v, err := ParseViewMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

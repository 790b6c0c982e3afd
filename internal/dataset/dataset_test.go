package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	low    = "35% Rigado Replacement, 1500 Annual Demand"
	noRisk = "75% Rigado Replacement, 1500 Annual Demand, No Risk buy"
	high   = "75% Rigado Replacement, 1750 Annual Demand"
)

func TestDefaultDataset(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{low, noRisk, high}, ds.Names())
	assert.Equal(t, "FY27 Purchase Plan: Cash Flow Analysis", ds.Meta().Title)

	timeline := ds.Timeline()
	require.Len(t, timeline, 20)
	assert.Equal(t, "CY2024 Q1", timeline[0])
	assert.Equal(t, "CY2028 Q4", timeline[19])

	for _, s := range ds.Scenarios() {
		assert.Len(t, s.Periods, 20, s.Name)
		assert.Equal(t, timeline, s.Labels(), s.Name)
	}

	s, ok := ds.Get(low)
	require.True(t, ok)
	assert.Equal(t, 129000.0, s.Periods[8].Value)
	assert.Equal(t, "CY2026 Q1", s.Periods[8].Label)
	assert.Equal(t, 65000.0, s.Periods[18].Value)
}

func TestGetUnknown(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	_, ok := ds.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, -1, ds.Position("nope"))
	assert.Equal(t, 2, ds.Position(high))
}

func TestAccessorsReturnCopies(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	s := ds.Scenarios()
	s[0].Periods[8].Value = -1
	tl := ds.Timeline()
	tl[0] = "mutated"

	again, _ := ds.Get(low)
	assert.Equal(t, 129000.0, again.Periods[8].Value)
	assert.Equal(t, "CY2024 Q1", ds.Timeline()[0])
}

func scenario(name string, labels ...string) model.Scenario {
	s := model.Scenario{Name: name}
	for _, l := range labels {
		s.Periods = append(s.Periods, model.Period{Label: l})
	}
	return s
}

func TestNewRejectsMisalignedTimelines(t *testing.T) {
	cases := []struct {
		name      string
		scenarios []model.Scenario
		culprit   string
	}{
		{"empty", nil, ""},
		{"length", []model.Scenario{scenario("a", "Q1", "Q2"), scenario("b", "Q1")}, "b"},
		{"label", []model.Scenario{scenario("a", "Q1", "Q2"), scenario("b", "Q1", "Q3")}, "b"},
		{"order", []model.Scenario{scenario("a", "Q1", "Q2"), scenario("b", "Q2", "Q1")}, "b"},
		{"duplicate name", []model.Scenario{scenario("a", "Q1"), scenario("a", "Q1")}, "a"},
		{"duplicate label", []model.Scenario{scenario("a", "Q1", "Q1")}, "a"},
		{"blank name", []model.Scenario{scenario("", "Q1")}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Meta{}, tc.scenarios)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tc.culprit, cfgErr.Scenario)
		})
	}
}

func TestParseInheritsTimeline(t *testing.T) {
	ds, err := Parse([]byte(`
title = "t"
timeline = ["A", "B"]

[[scenario]]
name = "one"
values = [1, 2]

[[scenario]]
name = "two"
timeline = ["A", "B"]
values = [3, 4]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, ds.Names())
	two, _ := ds.Get("two")
	assert.Equal(t, []float64{3, 4}, two.Values())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`timeline = ["A"]
[[scenario]]
name = "x"
values = [1, 2]
`))
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "x", cfgErr.Scenario)

	_, err = Parse([]byte(`[[scenario]]
name = "x"
timeline = ["A", "B"]
values = [1, 2]

[[scenario]]
name = "y"
timeline = ["A", "C"]
values = [1, 2]
`))
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "y", cfgErr.Scenario)

	_, err = Parse([]byte(`not toml [`))
	require.Error(t, err)
	assert.False(t, errors.As(err, &cfgErr))
}

func TestEncodeRoundTripKeepsFingerprint(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ds.Encode(&buf))

	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Fingerprint(), loaded.Fingerprint())
	assert.Equal(t, ds.Names(), loaded.Names())
}

func TestFingerprintChangesWithValues(t *testing.T) {
	a, err := New(Meta{}, []model.Scenario{{Name: "a", Periods: []model.Period{{Label: "Q1", Value: 1}}}})
	require.NoError(t, err)
	b, err := New(Meta{}, []model.Scenario{{Name: "a", Periods: []model.Period{{Label: "Q1", Value: 2}}}})
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

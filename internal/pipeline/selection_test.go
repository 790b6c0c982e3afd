package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSelection(t *testing.T) {
	ds := defaultDataset(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		unknown []string
	}{
		{"exact name", []string{low}, []string{low}, nil},
		{"index", []string{"3"}, []string{high}, nil},
		{"mixed with duplicate", []string{"1", low, "2"}, []string{low, noRisk}, nil},
		{"out of range index", []string{"0", "4"}, []string{}, []string{"0", "4"}},
		{"unknown name", []string{"Nope", " 3 "}, []string{high}, []string{"Nope"}},
		{"blank args", []string{"", "  "}, []string{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, unknown := ParseSelection(tt.args, ds)
			assert.Equal(t, tt.want, []string(sel))
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

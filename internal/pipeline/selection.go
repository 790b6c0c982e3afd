package pipeline

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"
)

// ParseSelection turns command-line scenario arguments into a selection.
// Each argument is an exact scenario name or a 1-based position in the
// dataset. Arguments matching neither are returned as unknown and left
// out of the selection. Duplicates collapse to one entry.
func ParseSelection(args []string, ds *dataset.Dataset) (model.Selection, []string) {
	names := ds.Names()
	seen := make(map[string]bool, len(args))
	var picked, unknown []string

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		name := ""
		if ds.Position(arg) >= 0 {
			name = arg
		} else if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(names) {
			name = names[n-1]
		}
		if name == "" {
			unknown = append(unknown, arg)
			continue
		}
		if !seen[name] {
			seen[name] = true
			picked = append(picked, name)
		}
	}
	return model.NewSelection(picked...), unknown
}

package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/store"
)

// Source says where the dataset lives. DBPath wins over FilePath; with
// neither set the embedded dataset is used.
type Source struct {
	DBPath   string
	FilePath string
}

// Origin describes the source for logs and status output.
func (s Source) Origin() string {
	switch {
	case s.DBPath != "":
		return "sqlite:" + s.DBPath
	case s.FilePath != "":
		return "file:" + s.FilePath
	default:
		return "embedded"
	}
}

// Watchable reports whether the source can change while the process runs.
func (s Source) Watchable() bool {
	return s.DBPath != "" || s.FilePath != ""
}

// LoadResult holds the output of a dataset load.
type LoadResult struct {
	Dataset  *dataset.Dataset
	Origin   string
	ModTime  time.Time
	LoadedAt time.Time
}

// Load reads the dataset from src and validates it.
func Load(src Source) (*LoadResult, error) {
	res := &LoadResult{Origin: src.Origin(), LoadedAt: time.Now()}

	var err error
	switch {
	case src.DBPath != "":
		res.ModTime = modTime(src.DBPath)
		var st *store.Store
		st, err = store.OpenExisting(src.DBPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s dataset: %w", res.Origin, err)
		}
		defer st.Close()
		res.Dataset, err = st.LoadDataset()
	case src.FilePath != "":
		res.ModTime = modTime(src.FilePath)
		res.Dataset, err = dataset.LoadFile(src.FilePath)
	default:
		res.Dataset, err = dataset.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s dataset: %w", res.Origin, err)
	}
	return res, nil
}

// Changed reports whether the source may have changed after the given
// load. The embedded source never changes. A sqlite store always reports
// true because WAL writes do not touch the main file's mtime.
func (s Source) Changed(since time.Time) bool {
	switch {
	case s.DBPath != "":
		return true
	case s.FilePath != "":
		return modTime(s.FilePath).After(since)
	default:
		return false
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

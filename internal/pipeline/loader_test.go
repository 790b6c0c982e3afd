package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	res, err := Load(Source{})
	require.NoError(t, err)
	assert.Equal(t, "embedded", res.Origin)
	assert.Equal(t, []string{low, noRisk, high}, res.Dataset.Names())
	assert.True(t, res.ModTime.IsZero())
	assert.False(t, Source{}.Watchable())
	assert.False(t, Source{}.Changed(time.Time{}))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeline = ["Q1", "Q2"]
[[scenario]]
name = "a"
values = [1, 2]
`), 0o600))

	src := Source{FilePath: path}
	res, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, "file:"+path, res.Origin)
	assert.Equal(t, []string{"a"}, res.Dataset.Names())
	assert.False(t, res.ModTime.IsZero())

	assert.True(t, src.Watchable())
	assert.False(t, src.Changed(res.ModTime))
	assert.True(t, src.Changed(res.ModTime.Add(-time.Second)))
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeline = ["Q1", "Q2"]
[[scenario]]
name = "a"
values = [1]
`), 0o600))

	_, err := Load(Source{FilePath: path})
	require.Error(t, err)
	var cfgErr *dataset.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "loading file:")
}

func TestLoadDBBeatsFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dataset.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	def, err := dataset.Default()
	require.NoError(t, err)
	require.NoError(t, st.SaveDataset(def))
	require.NoError(t, st.Close())

	src := Source{DBPath: dbPath, FilePath: "/does/not/exist.toml"}
	res, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, "sqlite:"+dbPath, res.Origin)
	assert.Equal(t, def.Fingerprint(), res.Dataset.Fingerprint())
	assert.True(t, src.Changed(time.Now()))
}

func TestLoadMissingDBLeavesNoFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "typo")
	path := filepath.Join(dir, "nope.db")

	_, err := Load(Source{DBPath: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "no directory may be created for a missing store")
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no database may be created for a missing store")
}

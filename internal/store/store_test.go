package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "dataset.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSaveAndLoadDataset(t *testing.T) {
	s, _ := openTemp(t)

	ds, err := dataset.Default()
	require.NoError(t, err)
	require.NoError(t, s.SaveDataset(ds))

	n, err := s.ScenarioCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	loaded, err := s.LoadDataset()
	require.NoError(t, err)
	assert.Equal(t, ds.Names(), loaded.Names())
	assert.Equal(t, ds.Timeline(), loaded.Timeline())
	assert.Equal(t, ds.Meta(), loaded.Meta())
	assert.Equal(t, ds.Fingerprint(), loaded.Fingerprint())
}

func TestSaveReplacesPreviousDataset(t *testing.T) {
	s, _ := openTemp(t)

	ds, err := dataset.Default()
	require.NoError(t, err)
	require.NoError(t, s.SaveDataset(ds))

	small, err := dataset.New(dataset.Meta{Title: "small"}, []model.Scenario{
		{Name: "only", Periods: []model.Period{{Label: "Q1", Value: 5}}},
	})
	require.NoError(t, err)
	require.NoError(t, s.SaveDataset(small))

	loaded, err := s.LoadDataset()
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, loaded.Names())
	assert.Equal(t, "small", loaded.Meta().Title)
}

func TestLoadEmptyStore(t *testing.T) {
	s, _ := openTemp(t)
	_, err := s.LoadDataset()
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestLoadRevalidatesRows(t *testing.T) {
	s, _ := openTemp(t)

	ds, err := dataset.Default()
	require.NoError(t, err)
	require.NoError(t, s.SaveDataset(ds))

	_, err = s.db.Exec("UPDATE periods SET label = 'CY2099 Q9' WHERE position = 3 AND scenario_id = (SELECT id FROM scenarios WHERE position = 1)")
	require.NoError(t, err)

	_, err = s.LoadDataset()
	var cfgErr *dataset.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, ds.Names()[1], cfgErr.Scenario)
}

func TestReopenKeepsSchema(t *testing.T) {
	s, path := openTemp(t)
	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	v, err = again.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
}

func TestOpenExistingRequiresFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dataset.db")
	_, err := OpenExisting(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenExistingReadsSavedDataset(t *testing.T) {
	s, path := openTemp(t)
	ds, err := dataset.Default()
	require.NoError(t, err)
	require.NoError(t, s.SaveDataset(ds))

	ro, err := OpenExisting(path)
	require.NoError(t, err)
	defer ro.Close()

	loaded, err := ro.LoadDataset()
	require.NoError(t, err)
	assert.Equal(t, ds.Fingerprint(), loaded.Fingerprint())
}

func TestLoadRejectsScenarioWithoutPeriods(t *testing.T) {
	s, _ := openTemp(t)

	ds, err := dataset.Default()
	require.NoError(t, err)
	require.NoError(t, s.SaveDataset(ds))

	_, err = s.db.Exec("DELETE FROM periods WHERE scenario_id = (SELECT id FROM scenarios WHERE position = 2)")
	require.NoError(t, err)

	_, err = s.LoadDataset()
	var cfgErr *dataset.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, ds.Names()[2], cfgErr.Scenario)
}

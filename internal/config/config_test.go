package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildtrack/internal/model"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "wildtrack.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, model.FilterNone, cfg.Notify.NotifyClassFilter)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wildtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \"0.0.0.0:9090\"\nnotify:\n  notify_class_filter: bogus\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Listen)
	assert.Equal(t, "*/15 * * * *", cfg.RefreshCron)
	assert.Equal(t, 7, cfg.HorizonDays)
	assert.Equal(t, 15, cfg.Notify.NotifyMinutesBefore)
	assert.Equal(t, model.FilterNone, cfg.Notify.NotifyClassFilter)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wildtrack.yaml")

	cfg := DefaultConfig()
	cfg.Notify.NotifyClassFilter = model.FilterSpecial
	cfg.Notify.NotifyMinutesBefore = 30
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.FilterSpecial, loaded.Notify.NotifyClassFilter)
	assert.Equal(t, 30, loaded.Notify.NotifyMinutesBefore)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

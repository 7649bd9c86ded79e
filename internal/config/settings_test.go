package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withTempConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := os.Getenv("SARE_CONFIG_HOME")
	os.Setenv("SARE_CONFIG_HOME", dir)
	t.Cleanup(func() { os.Setenv("SARE_CONFIG_HOME", old) })
	return dir
}

func TestDefaultSettingsRendererKeys(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.Renderer.UnicodeSupport)
	assert.True(t, s.Renderer.BidirectionalText)
	assert.Equal(t, DefaultMaxAtlasSize, s.Renderer.MaxAtlasSize)
	assert.Equal(t, DefaultMaxMemoryUsage, s.Renderer.MaxMemoryUsage)
}

func TestSaveAndLoadSettingsRoundTrip(t *testing.T) {
	withTempConfigHome(t)

	s := DefaultSettings()
	s.Terminal.ScrollbackLines = 5000
	s.Layout.DefaultAlgorithm = "grid"

	assert.NoError(t, SaveSettings(s))

	loaded := LoadSettings()
	assert.Equal(t, 5000, loaded.Terminal.ScrollbackLines)
	assert.Equal(t, "grid", loaded.Layout.DefaultAlgorithm)
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	withTempConfigHome(t)

	loaded := LoadSettings()
	assert.Equal(t, DefaultScrollbackLines, loaded.Terminal.ScrollbackLines)
}

func TestValidateSettingsJSONRejectsBadAlgorithm(t *testing.T) {
	data := []byte(`{"layout":{"default_algorithm":"nonsense"}}`)
	_, errs := ValidateSettingsJSON(data)
	assert.NotEmpty(t, errs)
}

func TestValidateSettingsJSONRejectsNegativeScrollback(t *testing.T) {
	data := []byte(`{"terminal":{"scrollback_lines":-1}}`)
	_, errs := ValidateSettingsJSON(data)
	assert.NotEmpty(t, errs)
}

func TestIsSettingsFile(t *testing.T) {
	withTempConfigHome(t)
	assert.True(t, IsSettingsFile(GetSettingsFilePath()))
	assert.False(t, IsSettingsFile(filepath.Join(GetConfigDir(), "other.json")))
}

func TestWatchSettingsFiresOnChange(t *testing.T) {
	withTempConfigHome(t)
	assert.NoError(t, SaveSettings(DefaultSettings()))

	changed := make(chan *Settings, 1)
	watcher, err := WatchSettings(func(s *Settings) { changed <- s })
	assert.NoError(t, err)
	defer watcher.Close()

	updated := DefaultSettings()
	updated.Terminal.ScrollbackLines = 42
	assert.NoError(t, SaveSettings(updated))

	select {
	case s := <-changed:
		assert.Equal(t, 42, s.Terminal.ScrollbackLines)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for settings change notification")
	}
}

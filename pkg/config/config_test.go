// pkg/config/config_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: temp dirs only
// PURPOSE: Load/save semantics of the flat JSON config

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(configPath(t))

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, config.ThemeDark, cfg.Theme)
	assert.True(t, cfg.ConfirmDelete)
	assert.Empty(t, cfg.ModsPath)
}

func TestLoadMalformedFileFailsSoft(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg, err := config.Load(path)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigLoad))
	assert.Equal(t, config.Default(), cfg, "malformed file must still yield defaults")
}

func TestLoadIgnoresUnknownKeysAndKeepsDefaults(t *testing.T) {
	path := configPath(t)
	raw := `{"mods_path": "/games/stardew/Mods", "legacy_key": 42}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/games/stardew/Mods", cfg.ModsPath)
	assert.Equal(t, config.ThemeDark, cfg.Theme, "absent key keeps default")
	assert.True(t, cfg.ConfirmDelete, "absent key keeps default")
}

func TestLoadNormalizesTheme(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": "neon"}`), 0o644))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, config.ThemeDark, cfg.Theme)
}

func TestLoadExpandsHomeInModsPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := configPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"mods_path": "~/StardewValley/Mods"}`), 0o644))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "StardewValley", "Mods"), cfg.ModsPath)
}

func TestSaveRoundTrip(t *testing.T) {
	path := configPath(t)
	cfg := config.Default()
	cfg.ModsPath = "/games/stardew/Mods"
	cfg.Theme = config.ThemeLight
	cfg.KeepDownloads = true

	require.NoError(t, config.Save(path, cfg))

	reloaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestSaveLoadSaveIsIdempotent(t *testing.T) {
	path := configPath(t)
	cfg := config.Default()
	cfg.ModsPath = "/games/stardew/Mods"
	require.NoError(t, config.Save(path, cfg))

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, config.Save(path, loaded))

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestSaveCreatesParentDirAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	require.NoError(t, config.Save(path, config.Default()))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.json", entries[0].Name())
}

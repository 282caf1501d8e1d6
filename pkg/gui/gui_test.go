package gui

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collin12121212/DewLoader/pkg/commands/download"
	"github.com/collin12121212/DewLoader/pkg/commands/install"
	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/paths"
	"github.com/collin12121212/DewLoader/pkg/registry"
)

// isolateEnv points every config and path lookup at a throwaway home so
// tests never touch the real user's files.
func isolateEnv(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("USERPROFILE", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, ".config"))
	t.Setenv(paths.EnvModsDir, "")
	xdg.Reload()
}

func writeMod(t *testing.T, modsDir, folder string) {
	t.Helper()
	dir := filepath.Join(modsDir, folder)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	manifest := `{"Name": "` + strings.TrimSuffix(folder, registry.DisabledSuffix) + `", "Version": "1.0.0"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifest), 0o644))
}

func buildZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// newTestApp builds the GUI against modsDir without a running watcher,
// so tests only exercise the synchronous paths.
func newTestApp(t *testing.T, modsDir string) *App {
	t.Helper()
	g := newApp(test.NewApp(), Options{ModsDir: modsDir})
	g.stopWatcher()
	t.Cleanup(g.stopWatcher)
	return g
}

func TestNewAppListsMods(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")
	writeMod(t, modsDir, "Beta.disabled")

	g := newTestApp(t, modsDir)

	require.Len(t, g.mods, 2)
	assert.Equal(t, "Alpha", g.mods[0].Name)
	assert.True(t, g.mods[0].Enabled)
	assert.Equal(t, "Beta", g.mods[1].Name)
	assert.False(t, g.mods[1].Enabled)
	assert.Equal(t, modsDir, g.pathLabel.Text)
	assert.Equal(t, "Found 2 mod(s)", g.statusText.Text)
}

func TestNewAppWithoutModsDir(t *testing.T) {
	isolateEnv(t)

	g := newTestApp(t, "")

	assert.Equal(t, "(not found)", g.pathLabel.Text)
	assert.Contains(t, g.statusText.Text, "Mods folder not found")
	assert.True(t, g.toggleBtn.Disabled())
	assert.True(t, g.deleteBtn.Disabled())
}

func TestToggleSelectedDisablesMod(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")

	g := newTestApp(t, modsDir)
	g.list.Select(0)
	require.Equal(t, "Disable", g.toggleBtn.Text)

	g.toggleSelected()

	assert.DirExists(t, filepath.Join(modsDir, "Alpha"+registry.DisabledSuffix))
	assert.NoDirExists(t, filepath.Join(modsDir, "Alpha"))
	assert.Equal(t, "Disabled: Alpha", g.statusText.Text)
	// Selection survives the rescan under the same name.
	require.Equal(t, 0, g.selected)
	assert.Equal(t, "Enable", g.toggleBtn.Text)
}

func TestToggleSelectedReenablesMod(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha.disabled")

	g := newTestApp(t, modsDir)
	g.list.Select(0)

	g.toggleSelected()

	assert.DirExists(t, filepath.Join(modsDir, "Alpha"))
	assert.Equal(t, "Enabled: Alpha", g.statusText.Text)
	assert.Equal(t, colorEnabled, g.statusText.Color)
}

func TestDeleteSelectedWithoutConfirm(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")
	writeMod(t, modsDir, "Beta")

	g := newTestApp(t, modsDir)
	g.cfg.ConfirmDelete = false
	g.list.Select(1)

	g.deleteSelected()

	assert.NoDirExists(t, filepath.Join(modsDir, "Beta"))
	assert.Equal(t, "Deleted: Beta", g.statusText.Text)
	require.Len(t, g.mods, 1)
	assert.Equal(t, -1, g.selected)
	assert.True(t, g.deleteBtn.Disabled())
}

func TestDeleteSelectedWaitsForConfirmation(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")

	g := newTestApp(t, modsDir)
	g.cfg.ConfirmDelete = true
	g.list.Select(0)

	g.deleteSelected()

	// Nothing is deleted until the dialog is answered.
	assert.DirExists(t, filepath.Join(modsDir, "Alpha"))
	require.Len(t, g.mods, 1)
}

func TestInstallArchives(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	zipPath := filepath.Join(t.TempDir(), "CoolMod.zip")
	buildZip(t, zipPath, map[string]string{
		"CoolMod/manifest.json": `{"Name": "CoolMod", "Version": "2.0.0"}`,
		"CoolMod/mod.dll":       "binary",
	})

	g := newTestApp(t, modsDir)
	g.installArchives([]string{zipPath})

	assert.DirExists(t, filepath.Join(modsDir, "CoolMod"))
	assert.Equal(t, "Installed: CoolMod", g.statusText.Text)
	require.Len(t, g.mods, 1)
	assert.Equal(t, "CoolMod", g.mods[0].Name)
}

func TestInstallArchivesCorruptFile(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	badPath := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(badPath, []byte("not an archive"), 0o644))

	g := newTestApp(t, modsDir)
	g.installArchives([]string{badPath})

	assert.Equal(t, "Installation failed", g.statusText.Text)
	assert.Equal(t, colorDisabled, g.statusText.Color)
	assert.Empty(t, g.mods)
}

func TestFinishDownloadSuccess(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "CoolMod")

	g := newTestApp(t, modsDir)
	g.urlEntry.SetText("http://example.com/CoolMod.zip")
	g.downloadBtn.Disable()
	g.progress.Show()

	g.finishDownload(&download.DownloadModResult{
		Filename: "CoolMod.zip",
		Install:  &install.InstallModsResult{Message: "Installed: CoolMod"},
	}, nil)

	assert.Equal(t, "", g.urlEntry.Text)
	assert.Equal(t, "Download complete: CoolMod.zip", g.statusText.Text)
	assert.False(t, g.progress.Visible())
	assert.False(t, g.downloadBtn.Disabled())
}

func TestFinishDownloadError(t *testing.T) {
	isolateEnv(t)
	g := newTestApp(t, t.TempDir())
	g.downloadBtn.Disable()

	g.finishDownload(nil, errors.New(errors.ErrNetwork, "connection refused"))

	assert.Equal(t, "Download failed", g.statusText.Text)
	assert.Equal(t, colorDisabled, g.statusText.Color)
	assert.False(t, g.downloadBtn.Disabled())
}

func TestStartDownloadRequiresURL(t *testing.T) {
	isolateEnv(t)
	g := newTestApp(t, t.TempDir())

	g.startDownload()

	assert.False(t, g.progress.Visible())
	assert.False(t, g.downloadBtn.Disabled())
}

func TestSetModsDirPersists(t *testing.T) {
	isolateEnv(t)
	first := t.TempDir()
	second := t.TempDir()
	writeMod(t, second, "Alpha")

	g := newTestApp(t, first)
	g.setModsDir(second, true)
	g.stopWatcher()

	assert.Equal(t, second, g.modsDir)
	assert.Equal(t, "Mods path changed to: "+second, g.statusText.Text)
	require.Len(t, g.mods, 1)

	saved, err := config.Load(paths.ConfigFile())
	require.NoError(t, err)
	assert.Equal(t, second, saved.ModsPath)
}

func TestThemeForSetting(t *testing.T) {
	dark, ok := themeForSetting(config.ThemeDark).(*forcedVariant)
	require.True(t, ok)
	assert.Equal(t, theme.VariantDark, dark.variant)

	light, ok := themeForSetting(config.ThemeLight).(*forcedVariant)
	require.True(t, ok)
	assert.Equal(t, theme.VariantLight, light.variant)

	_, forced := themeForSetting(config.ThemeSystem).(*forcedVariant)
	assert.False(t, forced)

	fallback, ok := themeForSetting("mauve").(*forcedVariant)
	require.True(t, ok)
	assert.Equal(t, theme.VariantDark, fallback.variant)
}

func TestForcedVariantIgnoresSystemVariant(t *testing.T) {
	light := &forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantLight}

	got := light.Color(theme.ColorNameBackground, theme.VariantDark)

	assert.Equal(t, theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight), got)
}

func TestStatusAndStateColors(t *testing.T) {
	test.NewApp()

	assert.Equal(t, colorEnabled, stateColor(registry.Mod{Enabled: true}))
	assert.Equal(t, colorDisabled, stateColor(registry.Mod{}))
	assert.Equal(t, colorConflict, stateColor(registry.Mod{Enabled: true, Conflict: true}))
	assert.Equal(t, colorEnabled, statusColor(statusOK))
	assert.Equal(t, colorDisabled, statusColor(statusError))
	assert.NotNil(t, statusColor(statusInfo))
}

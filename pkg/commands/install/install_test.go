package install_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/collin12121212/DewLoader/pkg/commands/install"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for entry, content := range entries {
		fw, err := w.Create(entry)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestInstallModsSingleArchive(t *testing.T) {
	mods := t.TempDir()
	zipPath := buildZip(t, "CoolMod.zip", map[string]string{
		"CoolMod/manifest.json": `{"Name": "Cool"}`,
	})

	result, err := install.InstallMods(install.InstallModsOptions{
		ModsDir:  mods,
		Archives: []string{zipPath},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Installed)
	assert.Zero(t, result.Failed)
	assert.Equal(t, "Installed: CoolMod", result.Message)
	assert.DirExists(t, filepath.Join(mods, "CoolMod"))
}

func TestInstallModsContinuesPastBadArchive(t *testing.T) {
	mods := t.TempDir()
	good := buildZip(t, "Good.zip", map[string]string{
		"Good/manifest.json": `{"Name": "Good"}`,
	})
	bad := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("PK\x03\x04garbage"), 0o644))

	result, err := install.InstallMods(install.InstallModsOptions{
		ModsDir:  mods,
		Archives: []string{bad, good},
	})

	require.Error(t, err)
	assert.Equal(t, 1, result.Installed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 2)
	assert.Error(t, result.Outcomes[0].Err)
	assert.NoError(t, result.Outcomes[1].Err)
	assert.DirExists(t, filepath.Join(mods, "Good"))
}

func TestInstallModsSingleFailureKeepsItsCode(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("PK\x03\x04garbage"), 0o644))

	_, err := install.InstallMods(install.InstallModsOptions{
		ModsDir:  t.TempDir(),
		Archives: []string{bad},
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCorruptArchive))
}

func TestInstallModsWarnsAboutMissingManifest(t *testing.T) {
	zipPath := buildZip(t, "NotAMod.zip", map[string]string{
		"NotAMod/readme.txt": "hi",
	})

	result, err := install.InstallMods(install.InstallModsOptions{
		ModsDir:  t.TempDir(),
		Archives: []string{zipPath},
	})

	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "NotAMod")
}

func TestInstallModsNoArchives(t *testing.T) {
	_, err := install.InstallMods(install.InstallModsOptions{ModsDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
}

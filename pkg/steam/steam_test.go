package steam_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/collin12121212/DewLoader/pkg/steam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrariesModernFormat(t *testing.T) {
	dir := t.TempDir()
	vdfPath := filepath.Join(dir, "libraryfolders.vdf")
	content := `"libraryfolders"
{
	"0"
	{
		"path"		"/home/user/.local/share/Steam"
		"label"		""
		"apps"
		{
			"413150"		"1491331502"
		}
	}
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
	}
}
`
	require.NoError(t, os.WriteFile(vdfPath, []byte(content), 0o644))

	libs, err := steam.Libraries(vdfPath)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/home/user/.local/share/Steam",
		"/mnt/games/SteamLibrary",
	}, libs)
}

func TestLibrariesLegacyFormat(t *testing.T) {
	dir := t.TempDir()
	vdfPath := filepath.Join(dir, "libraryfolders.vdf")
	content := `"LibraryFolders"
{
	"TimeNextStatsReport"		"0"
	"1"		"/mnt/games/SteamLibrary"
}
`
	require.NoError(t, os.WriteFile(vdfPath, []byte(content), 0o644))

	libs, err := steam.Libraries(vdfPath)

	require.NoError(t, err)
	assert.Equal(t, []string{"/mnt/games/SteamLibrary"}, libs)
}

func TestLibrariesMissingFile(t *testing.T) {
	_, err := steam.Libraries(filepath.Join(t.TempDir(), "nope.vdf"))
	assert.Error(t, err)
}

// buildSteamRoot lays out a minimal Steam root with one extra library and
// an app manifest naming a custom install dir.
func buildSteamRoot(t *testing.T) (root, library string) {
	t.Helper()
	root = t.TempDir()
	library = t.TempDir()

	steamapps := filepath.Join(root, "steamapps")
	require.NoError(t, os.MkdirAll(steamapps, 0o755))

	vdfContent := `"libraryfolders"
{
	"0"
	{
		"path"		"` + library + `"
	}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(steamapps, "libraryfolders.vdf"), []byte(vdfContent), 0o644))

	libApps := filepath.Join(library, "steamapps")
	require.NoError(t, os.MkdirAll(libApps, 0o755))
	acf := `"AppState"
{
	"appid"		"413150"
	"installdir"		"Stardew Valley Renamed"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(libApps, "appmanifest_413150.acf"), []byte(acf), 0o644))

	return root, library
}

func TestCandidatesForRoots(t *testing.T) {
	root, library := buildSteamRoot(t)

	candidates := steam.CandidatesForRoots([]string{root})

	assert.Contains(t, candidates,
		filepath.Join(root, "steamapps", "common", "Stardew Valley", "Mods"),
		"the root itself counts as a library with the stock name")
	assert.Contains(t, candidates,
		filepath.Join(library, "steamapps", "common", "Stardew Valley Renamed", "Mods"),
		"the extra library honors the manifest install dir")
}

func TestCandidatesForMissingRoots(t *testing.T) {
	candidates := steam.CandidatesForRoots([]string{filepath.Join(t.TempDir(), "absent")})
	assert.Empty(t, candidates)
}

func TestRootsNotEmpty(t *testing.T) {
	assert.NotEmpty(t, steam.Roots())
}

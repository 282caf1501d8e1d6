package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv points every config and download lookup at a throwaway
// home so tests never touch the real user's files.
func isolateEnv(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("USERPROFILE", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, ".config"))
	t.Setenv("XDG_DOWNLOAD_DIR", "")
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

// runCommand executes the CLI with args and returns captured stdout.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	if stdin != "" {
		rootCmd.SetIn(strings.NewReader(stdin))
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommandHasCoreCommands(t *testing.T) {
	rootCmd := NewRootCmd()

	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, expected := range []string{
		"list", "install", "download", "enable", "disable",
		"toggle", "remove", "path", "open", "topics", "version", "help",
	} {
		assert.True(t, names[expected], "missing command %q", expected)
	}
}

func TestListCommandShowsMods(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")
	writeMod(t, modsDir, "Beta"+registry.DisabledSuffix)

	out, err := runCommand(t, "", "list", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Mods in "+modsDir)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")
}

func TestListCommandJSON(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")
	writeMod(t, modsDir, "Beta"+registry.DisabledSuffix)

	out, err := runCommand(t, "", "list", "--mods-dir", modsDir, "--format", "json")
	require.NoError(t, err)

	var result struct {
		Mods []struct {
			Name    string
			Enabled bool
		}
		Enabled  int
		Disabled int
		Message  string
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Mods, 2)
	assert.Equal(t, 1, result.Enabled)
	assert.Equal(t, 1, result.Disabled)
	assert.Equal(t, "Found 2 mod(s)", result.Message)
}

func TestListCommandShowsConflictedMod(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Twin")
	writeMod(t, modsDir, "Twin"+registry.DisabledSuffix)

	out, err := runCommand(t, "", "list", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Twin")
	assert.Contains(t, out, "conflict")

	out, err = runCommand(t, "", "list", "--mods-dir", modsDir, "--format", "json")
	require.NoError(t, err)

	var result struct {
		Mods []struct {
			Name     string
			Conflict bool
		}
		Conflicts int
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Mods, 1, "both copies collapse into one entry")
	assert.True(t, result.Mods[0].Conflict)
	assert.Equal(t, 1, result.Conflicts)
}

func TestInstallCommandInstallsArchive(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	archivePath := filepath.Join(t.TempDir(), "CoolMod.zip")
	buildZip(t, archivePath, map[string]string{
		"CoolMod/manifest.json": `{"Name": "Cool Mod", "Version": "1.0.0"}`,
		"CoolMod/mod.dll":       "binary",
	})

	out, err := runCommand(t, "", "install", archivePath, "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(modsDir, "CoolMod"))
	assert.Contains(t, out, "Installed: CoolMod")
}

func TestInstallCommandCorruptArchive(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	archivePath := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("PK\x03\x04garbage"), 0o644))

	_, err := runCommand(t, "", "install", archivePath, "--mods-dir", modsDir, "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCorruptArchive))

	entries, readErr := os.ReadDir(modsDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a failed install must not leave anything behind")
}

func TestEnableAndDisableCommands(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha"+registry.DisabledSuffix)

	out, err := runCommand(t, "", "enable", "Alpha", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Enabled: Alpha")
	assert.DirExists(t, filepath.Join(modsDir, "Alpha"))

	out, err = runCommand(t, "", "disable", "Alpha", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled: Alpha")
	assert.DirExists(t, filepath.Join(modsDir, "Alpha"+registry.DisabledSuffix))
}

func TestEnableCommandUnknownMod(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()

	_, err := runCommand(t, "", "enable", "Nope", "--mods-dir", modsDir, "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrModNotFound))
}

func TestToggleCommandReportsNewStates(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")
	writeMod(t, modsDir, "Beta"+registry.DisabledSuffix)

	out, err := runCommand(t, "", "toggle", "Alpha", "Beta", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Disabled: Alpha")
	assert.Contains(t, out, "Enabled: Beta")
	assert.DirExists(t, filepath.Join(modsDir, "Alpha"+registry.DisabledSuffix))
	assert.DirExists(t, filepath.Join(modsDir, "Beta"))
}

func TestToggleTerminalOutputHasNoRawTags(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")

	out, err := runCommand(t, "", "toggle", "Alpha", "--mods-dir", modsDir, "--format", "term")
	require.NoError(t, err)

	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "[disabled]", "markup tags must be resolved, not printed")
}

func TestRemoveCommandAsksForConfirmation(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")

	// Declining keeps the mod
	out, err := runCommand(t, "n\n", "remove", "Alpha", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, MsgDeleteAborted)
	assert.DirExists(t, filepath.Join(modsDir, "Alpha"))

	// Confirming deletes it
	out, err = runCommand(t, "y\n", "remove", "Alpha", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted: Alpha")
	assert.NoDirExists(t, filepath.Join(modsDir, "Alpha"))
}

func TestRemoveCommandYesSkipsPrompt(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()
	writeMod(t, modsDir, "Alpha")

	out, err := runCommand(t, "", "remove", "--yes", "Alpha", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted: Alpha")
	assert.NoDirExists(t, filepath.Join(modsDir, "Alpha"))
}

func TestDownloadCommandHTTPError(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := runCommand(t, "", "download", server.URL+"/gone.zip", "--mods-dir", modsDir, "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrHTTPStatus))

	entries, readErr := os.ReadDir(modsDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestDownloadCommandInstallsMod(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()

	var zipBuf bytes.Buffer
	w := zip.NewWriter(&zipBuf)
	f, err := w.Create("CoolMod/manifest.json")
	require.NoError(t, err)
	_, err = f.Write([]byte(`{"Name": "Cool Mod", "Version": "1.0.0"}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(zipBuf.Bytes())
	}))
	defer server.Close()

	out, err := runCommand(t, "", "download", server.URL+"/CoolMod.zip", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Download complete: CoolMod.zip")
	assert.Contains(t, out, "Installed: CoolMod")
	assert.DirExists(t, filepath.Join(modsDir, "CoolMod"))
}

func TestPathCommandFlagOverride(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()

	out, err := runCommand(t, "", "path", "--mods-dir", modsDir, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, modsDir+"\n", out)
}

func TestPathCommandJSONCarriesSource(t *testing.T) {
	isolateEnv(t)
	modsDir := t.TempDir()

	out, err := runCommand(t, "", "path", "--mods-dir", modsDir, "--format", "json")
	require.NoError(t, err)

	var resolution struct {
		Path   string
		Source string
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resolution))
	assert.Equal(t, modsDir, resolution.Path)
	assert.Equal(t, "manual", resolution.Source)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dewloader version")
	assert.Contains(t, out, "commit:")
}

func TestHelpTopicsListed(t *testing.T) {
	out, err := runCommand(t, "", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "packaging")
	assert.Contains(t, out, "mod-archives")
	assert.Contains(t, out, "mods-folder")
	assert.Contains(t, out, "formats")
	assert.Contains(t, out, "--keep-copy")
}

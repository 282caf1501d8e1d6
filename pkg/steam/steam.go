// Package steam locates Stardew Valley installs across Steam libraries.
// It parses libraryfolders.vdf so installs living in secondary libraries
// (second drive, SD card) are found, and reads the app manifest to honor
// a renamed install directory.
package steam

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/andygrunwald/vdf"

	"github.com/collin12121212/DewLoader/pkg/logging"
)

// StardewAppID is Steam's application id for Stardew Valley.
const StardewAppID = "413150"

// defaultInstallDir is used when no app manifest names the install folder.
const defaultInstallDir = "Stardew Valley"

// Roots returns the conventional Steam installation roots for the current
// platform. Only candidates; callers check existence.
func Roots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	switch runtime.GOOS {
	case "windows":
		var roots []string
		if pf := os.Getenv("ProgramFiles(x86)"); pf != "" {
			roots = append(roots, filepath.Join(pf, "Steam"))
		}
		if pf := os.Getenv("ProgramFiles"); pf != "" {
			roots = append(roots, filepath.Join(pf, "Steam"))
		}
		roots = append(roots,
			filepath.Join(`C:\`, "Program Files (x86)", "Steam"),
			filepath.Join(`C:\`, "Program Files", "Steam"),
		)
		return roots
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Application Support", "Steam"),
		}
	default:
		return []string{
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".steam", "root"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
		}
	}
}

// Libraries returns the library root paths listed in a libraryfolders.vdf.
// Both the modern block format ("0" { "path" ... }) and the legacy flat
// format ("1" "/path") are understood.
func Libraries(vdfPath string) ([]string, error) {
	f, err := os.Open(vdfPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	parsed, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", vdfPath, err)
	}

	var folders map[string]interface{}
	for key, value := range parsed {
		if strings.EqualFold(key, "libraryfolders") {
			folders, _ = value.(map[string]interface{})
			break
		}
	}
	if folders == nil {
		return nil, fmt.Errorf("no libraryfolders block in %s", vdfPath)
	}

	var libs []string
	for key, entry := range folders {
		if !isIndexKey(key) {
			continue
		}
		switch e := entry.(type) {
		case string:
			libs = append(libs, e)
		case map[string]interface{}:
			if p, ok := e["path"].(string); ok && p != "" {
				libs = append(libs, p)
			}
		}
	}
	return libs, nil
}

// ModsCandidates returns possible Stardew Valley Mods directories across
// all Steam libraries reachable from the platform's Steam roots. Paths are
// not checked for existence.
func ModsCandidates() []string {
	return CandidatesForRoots(Roots())
}

// CandidatesForRoots is ModsCandidates for an explicit set of Steam roots.
func CandidatesForRoots(roots []string) []string {
	logger := logging.GetLogger("steam")

	seen := make(map[string]bool)
	var candidates []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			candidates = append(candidates, p)
		}
	}

	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}

		libs := []string{root}
		vdfPath := filepath.Join(root, "steamapps", "libraryfolders.vdf")
		if more, err := Libraries(vdfPath); err == nil {
			libs = append(libs, more...)
		} else {
			logger.Debug().Err(err).Str("path", vdfPath).Msg("No readable library index")
		}

		for _, lib := range libs {
			steamapps := filepath.Join(lib, "steamapps")
			installDir := installDirName(steamapps)
			gameDir := filepath.Join(steamapps, "common", installDir)
			add(filepath.Join(gameDir, "Mods"))
			if runtime.GOOS == "darwin" {
				// The macOS build keeps Mods inside the app bundle.
				add(filepath.Join(gameDir, "Contents", "MacOS", "Mods"))
			}
		}
	}
	return candidates
}

// installDirName reads the install folder name from the app manifest,
// falling back to the stock name.
func installDirName(steamappsDir string) string {
	acf := filepath.Join(steamappsDir, "appmanifest_"+StardewAppID+".acf")
	f, err := os.Open(acf)
	if err != nil {
		return defaultInstallDir
	}
	defer func() { _ = f.Close() }()

	parsed, err := vdf.NewParser(f).Parse()
	if err != nil {
		return defaultInstallDir
	}
	state, _ := parsed["AppState"].(map[string]interface{})
	if state == nil {
		return defaultInstallDir
	}
	if name, ok := state["installdir"].(string); ok && name != "" {
		return name
	}
	return defaultInstallDir
}

func isIndexKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

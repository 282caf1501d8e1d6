// Package manifest reads SMAPI manifest.json files found inside mod
// folders. Parsing is deliberately tolerant: manifests in the wild carry
// UTF-8 BOMs and the legacy object form of the Version field. A mod with
// an unreadable manifest still works; callers fall back to the folder name.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file SMAPI expects in every mod folder.
const FileName = "manifest.json"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Manifest is the subset of SMAPI manifest fields the app displays.
type Manifest struct {
	Name        string  `json:"Name"`
	Author      string  `json:"Author"`
	Version     Version `json:"Version"`
	Description string  `json:"Description"`
	UniqueID    string  `json:"UniqueID"`
}

// Version accepts both the modern string form ("1.2.3") and the legacy
// object form ({"MajorVersion":1,...}) used by very old mods.
type Version struct {
	value string
}

func (v Version) String() string {
	return v.value
}

// IsZero reports whether no version was present.
func (v Version) IsZero() bool {
	return v.value == ""
}

func (v *Version) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		v.value = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.value = s
		return nil
	}

	var legacy struct {
		Major int    `json:"MajorVersion"`
		Minor int    `json:"MinorVersion"`
		Patch int    `json:"PatchVersion"`
		Build string `json:"Build"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("unrecognized Version field: %w", err)
	}
	v.value = fmt.Sprintf("%d.%d.%d", legacy.Major, legacy.Minor, legacy.Patch)
	if legacy.Build != "" {
		v.value += "-" + legacy.Build
	}
	return nil
}

// Read parses the manifest inside modDir. The error distinguishes a
// missing manifest (os.IsNotExist) from a malformed one.
func Read(modDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(modDir, FileName))
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", FileName, err)
	}
	return &m, nil
}

// Exists reports whether modDir carries a manifest file.
func Exists(modDir string) bool {
	info, err := os.Stat(filepath.Join(modDir, FileName))
	return err == nil && !info.IsDir()
}

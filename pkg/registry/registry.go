// Package registry manages the installed mods inside the mods folder.
//
// Every immediate subdirectory is a mod. A mod is disabled by renaming
// its folder with the DisabledSuffix, which is how SMAPI itself decides
// what to load, so no extra state file is needed and the folder listing
// is always the truth.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/manifest"
)

// DisabledSuffix marks a mod folder SMAPI must not load. Toggling a mod
// is a rename adding or removing this suffix.
const DisabledSuffix = ".disabled"

const debounceDelay = 500 * time.Millisecond

// Mod is one folder in the mods directory.
type Mod struct {
	// Name is the folder name without the DisabledSuffix.
	Name    string
	Path    string
	Enabled bool
	// Conflict reports that both the enabled and the disabled folder
	// exist. Path and Manifest refer to the enabled copy, which is the
	// one SMAPI loads.
	Conflict bool
	// Manifest is nil when the folder has no readable manifest.json.
	Manifest *manifest.Manifest
}

// DisplayName renders the mod for lists: the manifest name when there is
// one, with the version appended.
func (m Mod) DisplayName() string {
	name := m.Name
	if m.Manifest != nil && m.Manifest.Name != "" {
		name = m.Manifest.Name
	}
	if m.Manifest != nil && !m.Manifest.Version.IsZero() {
		return fmt.Sprintf("%s (v%s)", name, m.Manifest.Version)
	}
	return name
}

// Registry reads and mutates one mods directory.
type Registry struct {
	dir string
}

func New(dir string) *Registry {
	return &Registry{dir: dir}
}

func (r *Registry) Dir() string {
	return r.dir
}

// Scan lists the mods currently on disk, sorted by name. Folders with an
// unreadable manifest are still listed; hidden folders are not.
func (r *Registry) Scan() ([]Mod, error) {
	logger := logging.GetLogger("registry")

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrModsDirNotFound,
				"mods folder does not exist: %s", r.dir)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read mods folder %s", r.dir)
	}

	var mods []Mod
	for _, e := range entries {
		if !e.IsDir() || hidden(e.Name()) {
			continue
		}
		name, disabled := strings.CutSuffix(e.Name(), DisabledSuffix)
		m := Mod{
			Name:    name,
			Path:    filepath.Join(r.dir, e.Name()),
			Enabled: !disabled,
		}
		mf, err := manifest.Read(m.Path)
		switch {
		case err == nil:
			m.Manifest = mf
		case os.IsNotExist(err):
			// Plain folder, likely not a SMAPI mod. Listed anyway.
		default:
			logger.Warn().Str("mod", name).Err(err).Msg("Unreadable manifest")
		}
		mods = append(mods, m)
	}

	sort.Slice(mods, func(i, j int) bool {
		a, b := strings.ToLower(mods[i].Name), strings.ToLower(mods[j].Name)
		if a != b {
			return a < b
		}
		return mods[i].Enabled && !mods[j].Enabled
	})

	// Both folder forms of the same mod can exist, usually after a manual
	// copy. The sort puts the enabled form first; the pair collapses into
	// one conflicted entry so listings show the problem, not a duplicate.
	merged := mods[:0]
	for _, m := range mods {
		if n := len(merged); n > 0 && merged[n-1].Name == m.Name {
			merged[n-1].Conflict = true
			continue
		}
		merged = append(merged, m)
	}
	return merged, nil
}

// Enable removes the DisabledSuffix from the mod's folder. Enabling an
// already enabled mod is a no-op; changed reports whether a rename
// actually happened.
func (r *Registry) Enable(name string) (changed bool, err error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	enabled, disabled := r.presence(name)
	switch {
	case enabled && disabled:
		return false, conflictErr(name)
	case enabled:
		return false, nil
	case !disabled:
		return false, notFoundErr(name)
	}
	return true, r.rename(name, r.disabledPath(name), r.enabledPath(name))
}

// Disable renames the mod's folder with the DisabledSuffix so SMAPI
// skips it. Disabling an already disabled mod is a no-op.
func (r *Registry) Disable(name string) (changed bool, err error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	enabled, disabled := r.presence(name)
	switch {
	case enabled && disabled:
		return false, conflictErr(name)
	case disabled && !enabled:
		return false, nil
	case !enabled:
		return false, notFoundErr(name)
	}
	return true, r.rename(name, r.enabledPath(name), r.disabledPath(name))
}

// Toggle flips the mod's enabled state and reports the new one.
func (r *Registry) Toggle(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	enabled, disabled := r.presence(name)
	switch {
	case enabled && disabled:
		return false, conflictErr(name)
	case enabled:
		_, err := r.Disable(name)
		return false, err
	case disabled:
		_, err := r.Enable(name)
		return true, err
	}
	return false, notFoundErr(name)
}

// Delete removes the mod's folder, whichever state it is in. Callers are
// expected to have confirmed with the user first.
func (r *Registry) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	logger := logging.GetLogger("registry")

	enabled, disabled := r.presence(name)
	if !enabled && !disabled {
		return notFoundErr(name)
	}
	for _, p := range []string{r.enabledPath(name), r.disabledPath(name)} {
		if _, err := os.Lstat(p); err != nil {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot delete mod %s", name)
		}
	}
	logger.Info().Str("mod", name).Msg("Mod deleted")
	return nil
}

// Watch reports changes to the mods directory on the returned channel,
// coalescing event storms. The channel closes when ctx is cancelled or
// the watcher dies.
func (r *Registry) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create mods watcher")
	}
	if err := w.Add(r.dir); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot watch %s", r.dir)
	}

	logger := logging.GetLogger("registry")
	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer func() { _ = w.Close() }()

		pending := false
		timer := time.NewTimer(debounceDelay)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				pending = true
				timer.Reset(debounceDelay)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("Mods watcher error")
			case <-timer.C:
				if !pending {
					continue
				}
				pending = false
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	}()
	return changes, nil
}

func (r *Registry) enabledPath(name string) string {
	return filepath.Join(r.dir, name)
}

func (r *Registry) disabledPath(name string) string {
	return filepath.Join(r.dir, name+DisabledSuffix)
}

// presence reports which forms of the mod's folder exist on disk.
func (r *Registry) presence(name string) (enabled, disabled bool) {
	if info, err := os.Lstat(r.enabledPath(name)); err == nil && info.IsDir() {
		enabled = true
	}
	if info, err := os.Lstat(r.disabledPath(name)); err == nil && info.IsDir() {
		disabled = true
	}
	return enabled, disabled
}

func (r *Registry) rename(name, from, to string) error {
	if err := os.Rename(from, to); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot rename mod %s", name)
	}
	logger := logging.GetLogger("registry")
	logger.Debug().
		Str("mod", name).
		Str("to", filepath.Base(to)).
		Msg("Mod renamed")
	return nil
}

// validateName rejects names that escape the mods dir or carry the
// toggle suffix; mods are addressed by their bare name.
func validateName(name string) error {
	switch {
	case name == "" || name == "." || name == "..":
		return errors.Newf(errors.ErrInvalidInput, "invalid mod name %q", name)
	case strings.ContainsAny(name, `/\`):
		return errors.Newf(errors.ErrInvalidInput, "mod name must not contain path separators: %q", name)
	case strings.HasSuffix(name, DisabledSuffix):
		return errors.Newf(errors.ErrInvalidInput,
			"mod name carries %s; use the bare name", DisabledSuffix)
	}
	return nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.EqualFold(name, "__macosx")
}

func notFoundErr(name string) error {
	return errors.Newf(errors.ErrModNotFound, "no mod named %q", name)
}

func conflictErr(name string) error {
	return errors.Newf(errors.ErrModConflict,
		"both enabled and disabled copies of %q exist; remove one", name)
}

package gui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/collin12121212/DewLoader/internal/version"
	"github.com/collin12121212/DewLoader/pkg/archive"
	"github.com/collin12121212/DewLoader/pkg/commands/download"
	"github.com/collin12121212/DewLoader/pkg/commands/install"
	"github.com/collin12121212/DewLoader/pkg/commands/open"
	"github.com/collin12121212/DewLoader/pkg/commands/remove"
	"github.com/collin12121212/DewLoader/pkg/commands/toggle"
	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/paths"
	"github.com/collin12121212/DewLoader/pkg/registry"
)

func (g *App) setStatus(msg string, level statusLevel) {
	g.statusText.Text = msg
	g.statusText.Color = statusColor(level)
	g.statusText.Refresh()
}

// refreshMods rescans the mods directory and redraws the list, keeping
// the current selection when that mod still exists. On a scan failure
// the error lands in the status line; callers must not overwrite it
// with a success message.
func (g *App) refreshMods() error {
	var selectedName string
	if g.selected >= 0 && g.selected < len(g.mods) {
		selectedName = g.mods[g.selected].Name
	}

	if g.modsDir == "" {
		g.mods = nil
		g.list.Refresh()
		g.updateButtons()
		return nil
	}

	mods, err := registry.New(g.modsDir).Scan()
	if err != nil {
		g.logger.Error().Err(err).Str("dir", g.modsDir).Msg("Scan failed")
		g.setStatus("Error reading mods: "+errors.Message(err), statusError)
		return err
	}
	g.mods = mods

	g.selected = -1
	for i, m := range mods {
		if selectedName != "" && m.Name == selectedName {
			g.selected = i
			break
		}
	}
	g.list.Refresh()
	if g.selected >= 0 {
		g.list.Select(g.selected)
	} else {
		g.list.UnselectAll()
	}
	g.updateButtons()
	return nil
}

func (g *App) manualRefresh() {
	if g.refreshMods() != nil {
		return
	}
	g.setStatus(fmt.Sprintf("Found %d mod(s)", len(g.mods)), statusInfo)
}

// updateButtons enables the selection-bound buttons and relabels the
// toggle button for the selected mod's state.
func (g *App) updateButtons() {
	if g.selected < 0 || g.selected >= len(g.mods) {
		g.toggleBtn.SetText("Enable/Disable")
		g.toggleBtn.Disable()
		g.deleteBtn.Disable()
		return
	}
	if g.mods[g.selected].Enabled {
		g.toggleBtn.SetText("Disable")
	} else {
		g.toggleBtn.SetText("Enable")
	}
	g.toggleBtn.Enable()
	g.deleteBtn.Enable()
}

func (g *App) toggleSelected() {
	if g.selected < 0 || g.selected >= len(g.mods) {
		dialog.ShowInformation("No Selection", "Select a mod to enable or disable.", g.window)
		return
	}
	mod := g.mods[g.selected]
	enabled, err := toggle.ToggleMod(g.modsDir, mod.Name)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to toggle mod:\n%s", errors.Message(err)), g.window)
		return
	}
	if g.refreshMods() != nil {
		return
	}
	if enabled {
		g.setStatus("Enabled: "+mod.Name, statusOK)
	} else {
		g.setStatus("Disabled: "+mod.Name, statusInfo)
	}
}

func (g *App) deleteSelected() {
	if g.selected < 0 || g.selected >= len(g.mods) {
		dialog.ShowInformation("No Selection", "Select a mod to delete.", g.window)
		return
	}
	mod := g.mods[g.selected]
	if !g.cfg.ConfirmDelete {
		g.deleteMod(mod)
		return
	}
	dialog.ShowConfirm("Delete Mod",
		fmt.Sprintf("Delete %s?\n\nThis removes the mod folder and cannot be undone.", mod.DisplayName()),
		func(confirmed bool) {
			if confirmed {
				g.deleteMod(mod)
			}
		}, g.window)
}

func (g *App) deleteMod(mod registry.Mod) {
	_, err := remove.RemoveMods(remove.RemoveModsOptions{
		ModsDir: g.modsDir,
		Names:   []string{mod.Name},
	})
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to delete mod:\n%s", errors.Message(err)), g.window)
		return
	}
	if g.refreshMods() != nil {
		return
	}
	g.setStatus("Deleted: "+mod.Name, statusInfo)
}

// installArchives installs archives synchronously and reports the
// outcome. Extraction is fast enough that blocking the UI is fine.
func (g *App) installArchives(files []string) {
	if g.modsDir == "" {
		g.setStatus("Pick a mods folder first", statusError)
		return
	}
	result, err := install.InstallMods(install.InstallModsOptions{
		ModsDir:  g.modsDir,
		Archives: files,
	})
	g.finishInstall(result, err)
}

func (g *App) finishInstall(result *install.InstallModsResult, err error) {
	refreshErr := g.refreshMods()
	if err != nil {
		g.setStatus("Installation failed", statusError)
		dialog.ShowError(fmt.Errorf("failed to install mod:\n%s", errors.Message(err)), g.window)
		if result != nil {
			g.showInstallWarnings(result)
		}
		return
	}
	if refreshErr == nil {
		g.setStatus(result.Message, statusOK)
	}
	g.showInstallWarnings(result)
}

func (g *App) showInstallWarnings(result *install.InstallModsResult) {
	if len(result.Warnings) == 0 {
		return
	}
	dialog.ShowInformation("Missing manifest",
		strings.Join(result.Warnings, "\n")+"\n\nSMAPI skips folders without a manifest.json.",
		g.window)
}

// startDownload fetches the entered URL in the background and installs
// the result. One transfer at a time; completion comes back via fyne.Do.
func (g *App) startDownload() {
	url := strings.TrimSpace(g.urlEntry.Text)
	if url == "" {
		dialog.ShowInformation("No URL", "Enter a URL to download from.", g.window)
		return
	}
	if g.modsDir == "" {
		g.setStatus("Pick a mods folder first", statusError)
		return
	}
	if g.fetcher.Busy() {
		g.setStatus("A download is already running", statusError)
		return
	}

	g.downloadBtn.Disable()
	g.progress.SetValue(0)
	g.progress.Show()
	g.setStatus("Downloading...", statusInfo)

	opts := download.DownloadModOptions{
		URL:      url,
		ModsDir:  g.modsDir,
		Fetcher:  g.fetcher,
		KeepCopy: g.cfg.KeepDownloads,
		Progress: func(done, total int64) {
			fyne.Do(func() {
				if total > 0 {
					g.progress.SetValue(float64(done) / float64(total))
				}
			})
		},
	}
	go func() {
		result, err := download.DownloadMod(context.Background(), opts)
		fyne.Do(func() { g.finishDownload(result, err) })
	}()
}

func (g *App) finishDownload(result *download.DownloadModResult, err error) {
	g.downloadBtn.Enable()
	g.progress.Hide()
	refreshErr := g.refreshMods()
	if err != nil {
		g.setStatus("Download failed", statusError)
		dialog.ShowError(fmt.Errorf("failed to download:\n%s", errors.Message(err)), g.window)
		return
	}
	g.urlEntry.SetText("")
	if refreshErr == nil {
		g.setStatus("Download complete: "+result.Filename, statusOK)
	}
	if result.Install != nil {
		g.showInstallWarnings(result.Install)
	}
}

func (g *App) promptForModsDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		if uri == nil {
			return
		}
		g.setModsDir(uri.Path(), true)
	}, g.window)
}

func (g *App) promptForArchive() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		g.installArchives([]string{path})
	}, g.window)
	fd.SetFilter(storage.NewExtensionFileFilter(archive.Extensions()))
	fd.Show()
}

// setModsDir switches the app to a new mods directory and restarts the
// change watcher. persist saves the choice to the config file.
func (g *App) setModsDir(dir string, persist bool) {
	g.modsDir = dir
	g.pathLabel.SetText(dir)
	if persist {
		g.cfg.ModsPath = dir
		g.saveConfig()
	}
	if g.refreshMods() == nil {
		if persist {
			g.setStatus("Mods path changed to: "+dir, statusInfo)
		} else {
			g.setStatus(fmt.Sprintf("Found %d mod(s)", len(g.mods)), statusInfo)
		}
	}
	g.startWatcher()
}

func (g *App) openModsFolder() {
	if g.modsDir == "" {
		g.setStatus("Pick a mods folder first", statusError)
		return
	}
	if err := open.OpenFolder(g.modsDir); err != nil {
		dialog.ShowError(fmt.Errorf("could not open folder:\n%s", errors.Message(err)), g.window)
	}
}

func (g *App) showSettings() {
	themeSelect := widget.NewSelect([]string{config.ThemeDark, config.ThemeLight, config.ThemeSystem}, nil)
	themeSelect.SetSelected(g.cfg.Theme)
	keepCheck := widget.NewCheck("Keep a copy of downloaded archives", nil)
	keepCheck.SetChecked(g.cfg.KeepDownloads)
	confirmCheck := widget.NewCheck("Ask before deleting a mod", nil)
	confirmCheck.SetChecked(g.cfg.ConfirmDelete)

	items := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Downloads", keepCheck),
		widget.NewFormItem("Deleting", confirmCheck),
	}
	dialog.ShowForm("Settings", "Save", "Cancel", items, func(save bool) {
		if !save {
			return
		}
		g.cfg.Theme = themeSelect.Selected
		g.cfg.KeepDownloads = keepCheck.Checked
		g.cfg.ConfirmDelete = confirmCheck.Checked
		g.app.Settings().SetTheme(themeForSetting(g.cfg.Theme))
		g.saveConfig()
		g.setStatus("Settings saved", statusInfo)
	}, g.window)
}

func (g *App) showAbout() {
	dialog.ShowInformation("About DewLoader", fmt.Sprintf(
		"DewLoader %s\n\n"+
			"A small tool to manage Stardew Valley mods.\n\n"+
			"Drag-and-drop installation, URL downloads,\n"+
			"enable/disable and delete, SMAPI folder detection.\n\n"+
			"Supported formats: %s",
		version.Version, strings.Join(archive.Extensions(), ", ")), g.window)
}

func (g *App) saveConfig() {
	if err := config.Save(paths.ConfigFile(), g.cfg); err != nil {
		g.logger.Error().Err(err).Msg("Config save failed")
		g.setStatus("Failed to save settings", statusError)
	}
}

// startWatcher watches the mods directory and refreshes the list on
// changes. A previous watcher is stopped first.
func (g *App) startWatcher() {
	g.stopWatcher()
	if g.modsDir == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	events, err := registry.New(g.modsDir).Watch(ctx)
	if err != nil {
		cancel()
		g.logger.Warn().Err(err).Str("dir", g.modsDir).Msg("Watch failed, list will not auto-refresh")
		return
	}
	g.watchCancel = cancel
	go func() {
		for range events {
			fyne.Do(func() { _ = g.refreshMods() })
		}
	}()
}

func (g *App) stopWatcher() {
	if g.watchCancel != nil {
		g.watchCancel()
		g.watchCancel = nil
	}
}

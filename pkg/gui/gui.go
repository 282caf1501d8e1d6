// Package gui is the desktop shell: one window wrapping the command layer
// with a mod list, a download box, and drag-and-drop install.
//
// All widget access happens on the fyne UI goroutine. Background work
// (downloads, the directory watcher) hands its results over with fyne.Do
// before touching any widget.
package gui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/collin12121212/DewLoader/pkg/archive"
	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/fetch"
	"github.com/collin12121212/DewLoader/pkg/gamedir"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/paths"
	"github.com/collin12121212/DewLoader/pkg/registry"
)

const appID = "io.github.collin12121212.dewloader"

// Options configures the GUI before the window opens.
type Options struct {
	// ModsDir overrides mods directory resolution when set.
	ModsDir string
}

// Run opens the main window and blocks until it is closed.
func Run(opts Options) error {
	g := newApp(app.NewWithID(appID), opts)
	g.window.ShowAndRun()
	return nil
}

// App holds the window and widget state.
type App struct {
	app    fyne.App
	window fyne.Window

	cfg     *config.Config
	fetcher *fetch.Fetcher
	logger  zerolog.Logger

	modsDir  string
	mods     []registry.Mod
	selected int

	watchCancel context.CancelFunc

	pathLabel   *widget.Label
	urlEntry    *widget.Entry
	downloadBtn *widget.Button
	progress    *widget.ProgressBar
	list        *widget.List
	toggleBtn   *widget.Button
	deleteBtn   *widget.Button
	statusText  *canvas.Text
}

func newApp(a fyne.App, opts Options) *App {
	g := &App{
		app:      a,
		fetcher:  fetch.New(0),
		logger:   logging.GetLogger("gui"),
		selected: -1,
	}

	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		g.logger.Warn().Err(err).Msg("Config load failed, using defaults")
	}
	g.cfg = cfg

	a.Settings().SetTheme(themeForSetting(cfg.Theme))

	g.window = a.NewWindow("DewLoader")
	g.window.Resize(fyne.NewSize(900, 700))
	g.setupUI()

	if opts.ModsDir != "" {
		g.setModsDir(paths.ExpandHome(opts.ModsDir), false)
	} else if res, rerr := gamedir.Resolve(cfg); rerr != nil {
		g.pathLabel.SetText("(not found)")
		g.setStatus("Mods folder not found. Make sure SMAPI is installed, or pick the folder by hand.", statusError)
	} else {
		g.logger.Info().Str("path", res.Path).Str("source", string(res.Source)).Msg("Mods dir resolved")
		g.setModsDir(res.Path, false)
	}

	return g
}

func (g *App) setupUI() {
	g.pathLabel = widget.NewLabel("(detecting)")
	g.pathLabel.Truncation = fyne.TextTruncateEllipsis
	changeBtn := widget.NewButton("Change...", g.promptForModsDir)
	openBtn := widget.NewButton("Open Mods Folder", g.openModsFolder)
	pathRow := container.NewBorder(nil, nil,
		widget.NewLabel("Mods folder:"), container.NewHBox(changeBtn, openBtn), g.pathLabel)

	g.urlEntry = widget.NewEntry()
	g.urlEntry.SetPlaceHolder("https://example.com/mod.zip")
	g.urlEntry.OnSubmitted = func(string) { g.startDownload() }
	g.downloadBtn = widget.NewButton("Download", g.startDownload)
	g.progress = widget.NewProgressBar()
	g.progress.Hide()
	downloadRow := container.NewBorder(nil, g.progress,
		widget.NewLabel("URL:"), g.downloadBtn, g.urlEntry)

	dropHint := widget.NewLabelWithStyle(
		"Drag & drop mod archives anywhere in this window ("+strings.Join(archive.Extensions(), ", ")+"), or use Install File...",
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	g.list = widget.NewList(
		func() int { return len(g.mods) },
		func() fyne.CanvasObject {
			dot := canvas.NewText("●", colorEnabled)
			label := widget.NewLabel("mod name")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, dot, nil, label)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(g.mods) {
				return
			}
			mod := g.mods[id]
			for _, o := range obj.(*fyne.Container).Objects {
				switch v := o.(type) {
				case *canvas.Text:
					v.Color = stateColor(mod)
					v.Refresh()
				case *widget.Label:
					text := mod.DisplayName()
					if mod.Conflict {
						text += " (conflict: both copies present)"
					}
					v.SetText(text)
				}
			}
		},
	)
	g.list.OnSelected = func(id widget.ListItemID) {
		g.selected = id
		g.updateButtons()
	}
	g.list.OnUnselected = func(id widget.ListItemID) {
		if g.selected == id {
			g.selected = -1
		}
		g.updateButtons()
	}

	g.toggleBtn = widget.NewButton("Enable/Disable", g.toggleSelected)
	g.deleteBtn = widget.NewButton("Delete", g.deleteSelected)
	installBtn := widget.NewButton("Install File...", g.promptForArchive)
	refreshBtn := widget.NewButton("Refresh", g.manualRefresh)
	settingsBtn := widget.NewButton("Settings", g.showSettings)
	aboutBtn := widget.NewButton("About", g.showAbout)
	buttons := container.NewHBox(
		g.toggleBtn, g.deleteBtn, installBtn, refreshBtn,
		layout.NewSpacer(), settingsBtn, aboutBtn)

	g.statusText = canvas.NewText("Ready", statusColor(statusInfo))
	g.updateButtons()

	top := container.NewVBox(pathRow, widget.NewSeparator(), downloadRow, dropHint, widget.NewSeparator())
	bottom := container.NewVBox(widget.NewSeparator(), buttons, g.statusText)
	g.window.SetContent(container.NewBorder(top, bottom, nil, nil, g.list))

	g.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		var files []string
		for _, u := range uris {
			if archive.Supported(u.Path()) {
				files = append(files, u.Path())
			}
		}
		if len(files) == 0 {
			g.setStatus("Dropped files are not supported archives", statusError)
			return
		}
		g.installArchives(files)
	})
	g.window.SetOnClosed(g.stopWatcher)
}

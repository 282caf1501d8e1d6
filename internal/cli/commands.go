package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/collin12121212/DewLoader/internal/version"
	"github.com/collin12121212/DewLoader/pkg/commands/download"
	"github.com/collin12121212/DewLoader/pkg/commands/install"
	"github.com/collin12121212/DewLoader/pkg/commands/list"
	"github.com/collin12121212/DewLoader/pkg/commands/open"
	"github.com/collin12121212/DewLoader/pkg/commands/remove"
	"github.com/collin12121212/DewLoader/pkg/commands/toggle"
	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/fetch"
	"github.com/collin12121212/DewLoader/pkg/gamedir"
	"github.com/collin12121212/DewLoader/pkg/paths"
	"github.com/collin12121212/DewLoader/pkg/registry"
	"github.com/collin12121212/DewLoader/pkg/style"
	"github.com/collin12121212/DewLoader/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// loadConfig reads the user configuration. Load fails soft, so a broken
// file surfaces as a warning and the defaults are used.
func loadConfig() *config.Config {
	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		log.Warn().Err(err).Msg("Config unreadable, using defaults")
	}
	return cfg
}

// modsDirFlag returns the --mods-dir override, home-expanded
func modsDirFlag(cmd *cobra.Command) string {
	dir, _ := cmd.Root().PersistentFlags().GetString("mods-dir")
	return paths.ExpandHome(dir)
}

// resolveModsDir returns the mods directory a command operates on: the
// --mods-dir flag when given, otherwise the detected location.
func resolveModsDir(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if dir := modsDirFlag(cmd); dir != "" {
		return dir, nil
	}
	resolution, err := gamedir.Resolve(cfg)
	if err != nil {
		return "", err
	}
	return resolution.Path, nil
}

// outputFormat reads the --format flag, falling back to auto-detection
func outputFormat(cmd *cobra.Command) ui.Format {
	raw, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(raw)
	if err != nil {
		log.Warn().Str("format", raw).Msg("Unknown output format, using auto")
		return ui.FormatAuto
	}
	return format
}

// interactiveOutput reports whether out is a live terminal in this format
func interactiveOutput(format ui.Format, out io.Writer) bool {
	switch format {
	case ui.FormatTerminal:
		return true
	case ui.FormatAuto:
		file, ok := out.(*os.File)
		return ok && ui.DetectFormat(file) == ui.FormatTerminal
	default:
		return false
	}
}

// modRows converts scanned mods into display rows
func modRows(mods []registry.Mod) []style.ModRow {
	rows := make([]style.ModRow, 0, len(mods))
	for _, mod := range mods {
		state := style.StateDisabled
		switch {
		case mod.Conflict:
			state = style.StateConflict
		case mod.Enabled:
			state = style.StateEnabled
		}
		warning := ""
		switch {
		case mod.Conflict:
			warning = "both enabled and disabled folders exist"
		case mod.Manifest == nil:
			warning = "no manifest.json"
		}
		rows = append(rows, style.ModRow{
			DisplayName: mod.DisplayName(),
			Folder:      mod.Name,
			State:       state,
			Warning:     warning,
		})
	}
	return rows
}

// modNamesCompletion provides shell completion for installed mod names
func modNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	dir, err := resolveModsDir(cmd, loadConfig())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	mods, err := registry.New(dir).Scan()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var available []string
	for _, mod := range mods {
		taken := false
		for _, arg := range args {
			if arg == mod.Name {
				taken = true
				break
			}
		}
		if !taken {
			available = append(available, mod.Name)
		}
	}
	return available, cobra.ShellCompDirectiveNoFileComp
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := list.ListMods(list.ListModsOptions{
				Config:  loadConfig(),
				ModsDir: modsDirFlag(cmd),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			format := outputFormat(cmd)
			if format == ui.FormatJSON {
				return ui.WriteJSON(out, result)
			}

			renderer := ui.NewRenderer(format, out)
			fmt.Fprintln(out, renderer.RenderModList(result.Resolution.Path, modRows(result.Mods)))
			return nil
		},
	}
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "install <archive>...",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveModsDir(cmd, loadConfig())
			if err != nil {
				return err
			}

			result, installErr := install.InstallMods(install.InstallModsOptions{
				ModsDir:  dir,
				Archives: args,
			})
			if result == nil {
				return installErr
			}

			out := cmd.OutOrStdout()
			format := outputFormat(cmd)
			if format == ui.FormatJSON {
				return ui.WriteJSON(out, result)
			}

			renderer := ui.NewRenderer(format, out)
			for _, warning := range result.Warnings {
				fmt.Fprintln(out, style.WarningIndicator+" "+warning)
			}
			if result.Installed > 0 {
				fmt.Fprintln(out, renderer.RenderMessage(result.Message))
			}
			return installErr
		},
	}
}

func newDownloadCmd() *cobra.Command {
	var (
		keepCopy bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:     "download <url>",
		Short:   MsgDownloadShort,
		Long:    MsgDownloadLong,
		Example: MsgDownloadExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			dir, err := resolveModsDir(cmd, cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep-copy") {
				keepCopy = cfg.KeepDownloads
			}

			out := cmd.OutOrStdout()
			format := outputFormat(cmd)
			renderer := ui.NewRenderer(format, out)

			// Progress only makes sense on an interactive terminal
			var progress fetch.Progress
			if interactiveOutput(format, out) {
				stderr := cmd.ErrOrStderr()
				progress = func(done, total int64) {
					fmt.Fprintf(stderr, "\r%s", renderer.RenderProgress(done, total, "downloading"))
				}
			}

			result, err := download.DownloadMod(cmd.Context(), download.DownloadModOptions{
				URL:      args[0],
				ModsDir:  dir,
				Timeout:  timeout,
				KeepCopy: keepCopy,
				Progress: progress,
			})
			if progress != nil {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return ui.WriteJSON(out, result)
			}
			fmt.Fprintln(out, renderer.RenderMessage("Download complete: "+result.Filename))
			fmt.Fprintln(out, renderer.RenderMessage(result.Message))
			if result.SavedTo != "" {
				fmt.Fprintln(out, renderer.RenderMessage("Saved a copy to [path]"+result.SavedTo+"[/path]"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepCopy, "keep-copy", false, MsgFlagKeepCopy)
	cmd.Flags().DurationVar(&timeout, "timeout", fetch.DefaultTimeout, MsgFlagTimeout)
	return cmd
}

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "enable <mod>...",
		Short:             MsgEnableShort,
		Long:              MsgEnableLong,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveModsDir(cmd, loadConfig())
			if err != nil {
				return err
			}
			result, err := toggle.EnableMods(toggle.ToggleModsOptions{ModsDir: dir, Names: args})
			if err != nil {
				return err
			}
			return printResult(cmd, result, result.Message)
		},
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "disable <mod>...",
		Short:             MsgDisableShort,
		Long:              MsgDisableLong,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveModsDir(cmd, loadConfig())
			if err != nil {
				return err
			}
			result, err := toggle.DisableMods(toggle.ToggleModsOptions{ModsDir: dir, Names: args})
			if err != nil {
				return err
			}
			return printResult(cmd, result, result.Message)
		},
	}
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "toggle <mod>...",
		Short:             MsgToggleShort,
		Example:           MsgToggleExample,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveModsDir(cmd, loadConfig())
			if err != nil {
				return err
			}

			var enabled, disabled []string
			for _, name := range args {
				nowEnabled, err := toggle.ToggleMod(dir, name)
				if err != nil {
					return err
				}
				if nowEnabled {
					enabled = append(enabled, name)
				} else {
					disabled = append(disabled, name)
				}
			}

			out := cmd.OutOrStdout()
			format := outputFormat(cmd)
			if format == ui.FormatJSON {
				return ui.WriteJSON(out, map[string][]string{
					"enabled":  enabled,
					"disabled": disabled,
				})
			}
			renderer := ui.NewRenderer(format, out)
			if len(enabled) > 0 {
				fmt.Fprintln(out, renderer.RenderMessage(
					"Enabled: [enabled]"+strings.Join(enabled, ", ")+"[/enabled]"))
			}
			if len(disabled) > 0 {
				fmt.Fprintln(out, renderer.RenderMessage(
					"Disabled: [disabled]"+strings.Join(disabled, ", ")+"[/disabled]"))
			}
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "remove <mod>...",
		Aliases:           []string{"delete"},
		Short:             MsgRemoveShort,
		Long:              MsgRemoveLong,
		Example:           MsgRemoveExample,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveModsDir(cmd, loadConfig())
			if err != nil {
				return err
			}

			if !yes {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgConfirmDelete, strings.Join(args, ", "))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), MsgDeleteAborted)
					return nil
				}
			}

			result, err := remove.RemoveMods(remove.RemoveModsOptions{ModsDir: dir, Names: args})
			if err != nil {
				return err
			}
			return printResult(cmd, result, result.Message)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, MsgFlagYes)
	return cmd
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "path",
		Short:   MsgPathShort,
		Long:    MsgPathLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolution := &gamedir.Resolution{Path: modsDirFlag(cmd), Source: gamedir.SourceManual}
			if resolution.Path == "" {
				var err error
				resolution, err = gamedir.Resolve(loadConfig())
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch outputFormat(cmd) {
			case ui.FormatJSON:
				return ui.WriteJSON(out, resolution)
			case ui.FormatText:
				fmt.Fprintln(out, resolution.Path)
			default:
				fmt.Fprintln(out, style.RenderTemplate("{{path}} [muted](from {{source}})[/muted]",
					map[string]string{
						"path":   resolution.Path,
						"source": string(resolution.Source),
					}))
			}
			return nil
		},
	}
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "open",
		Short:   MsgOpenShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveModsDir(cmd, loadConfig())
			if err != nil {
				return err
			}
			if err := open.OpenFolder(dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Opened "+dir)
			return nil
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			for _, helpCmd := range cmd.Root().Commands() {
				if helpCmd.Name() == "help" {
					if helpCmd.RunE != nil {
						return helpCmd.RunE(helpCmd, []string{"topics"})
					}
					if helpCmd.Run != nil {
						helpCmd.Run(helpCmd, []string{"topics"})
						return nil
					}
				}
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dewloader version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

// printResult writes a command result as JSON or as its one-line message
func printResult(cmd *cobra.Command, result any, message string) error {
	out := cmd.OutOrStdout()
	format := outputFormat(cmd)
	if format == ui.FormatJSON {
		return ui.WriteJSON(out, result)
	}
	renderer := ui.NewRenderer(format, out)
	fmt.Fprintln(out, renderer.RenderMessage(message))
	return nil
}

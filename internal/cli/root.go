// Package cli builds the dewloader command tree. Run bare it opens the
// GUI; every operation is also exposed as a subcommand for scripting.
package cli

import (
	"embed"
	"io/fs"

	"github.com/collin12121212/DewLoader/internal/version"
	"github.com/collin12121212/DewLoader/pkg/cobrax/topics"
	"github.com/collin12121212/DewLoader/pkg/gui"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		modsDir   string
		format    string
	)

	rootCmd := &cobra.Command{
		Use:     "dewloader",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand means the user wants the app itself
			return gui.Run(gui.Options{ModsDir: modsDir})
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&modsDir, "mods-dir", "", MsgFlagModsDir)
	rootCmd.PersistentFlags().StringVar(&format, "format", "", MsgFlagFormat)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Add all commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newEnableCmd())
	rootCmd.AddCommand(newDisableCmd())
	rootCmd.AddCommand(newToggleCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newPathCmd())
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Initialize topic-based help from the embedded documentation
	if docs, err := fs.Sub(topicsFS, "topics"); err == nil {
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			// Always use Glamour renderer for markdown files
			Renderer: topics.NewGlamourRenderer(),
		}
		if err := topics.InitializeWithOptions(rootCmd, docs, opts); err != nil {
			log.Warn().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

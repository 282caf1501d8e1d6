package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort     = "A mod loader for Stardew Valley"
	MsgListShort     = "List installed mods"
	MsgListLong      = "List displays every mod found in the Mods folder, with its enabled state."
	MsgInstallShort  = "Install mod archives into the Mods folder"
	MsgDownloadShort = "Download a mod archive from a URL and install it"
	MsgEnableShort   = "Enable disabled mods"
	MsgEnableLong    = "Enable renames disabled mod folders back to their plain name so SMAPI loads them again."
	MsgDisableShort  = "Disable mods without deleting them"
	MsgDisableLong   = "Disable renames mod folders so SMAPI skips them. The mod's files and settings stay in place."
	MsgToggleShort   = "Flip mods between enabled and disabled"
	MsgRemoveShort   = "Delete installed mods"
	MsgRemoveLong    = "Remove deletes mod folders from the Mods folder entirely. This cannot be undone."
	MsgPathShort     = "Print the resolved Mods folder"
	MsgPathLong      = "Path prints the Mods folder dewloader would operate on, and where it came from."
	MsgOpenShort     = "Open the Mods folder in the file manager"
	MsgTopicsShort   = "Display available documentation topics"
	MsgTopicsLong    = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgVersionShort  = "Print version information"

	// Command examples
	MsgListExample = `  dewloader list
  dewloader list --format json`
	MsgInstallExample = `  dewloader install ~/Downloads/CoolMod.zip
  dewloader install *.zip`
	MsgDownloadExample = `  dewloader download https://example.com/mods/CoolMod.zip
  dewloader download --keep-copy https://example.com/mods/CoolMod.zip`
	MsgToggleExample = `  dewloader toggle CoolMod
  dewloader toggle CoolMod OtherMod`
	MsgRemoveExample = `  dewloader remove CoolMod
  dewloader remove --yes CoolMod`

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagModsDir  = "Mods folder to operate on (overrides detection)"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagKeepCopy = "Save the downloaded archive to your Downloads folder"
	MsgFlagTimeout  = "Network timeout for the download"
	MsgFlagYes      = "Delete without asking for confirmation"

	// Prompts
	MsgConfirmDelete = "Delete %s? This cannot be undone. [y/N]: "
	MsgDeleteAborted = "Aborted, nothing deleted."
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/download-long.txt
	msgDownloadLongRaw string
	MsgDownloadLong    = strings.TrimSpace(msgDownloadLongRaw)
)

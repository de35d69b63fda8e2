// zotclip: reformat Zotero citations on the clipboard.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/zotclip/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "zotclip",
		Short: "Reformat Zotero citations on the clipboard",
		Long: `zotclip watches the system clipboard for citations copied from Zotero
("title" ([item](zotero://...)) ([pdf](zotero://...))) and rewrites them in
place as plain text or as a markdown reference, depending on the active mode.

Run "zotclip watch" in the background. Use "zotclip mode" to switch formats,
"zotclip reformat" for a one-shot rewrite, "zotclip status" to inspect a
running daemon.

Config file search order (first found wins):
  /etc/zotclip/zotclip.toml
  $HOME/.config/zotclip/zotclip.toml
  path supplied via --config

All flags can be set via ZOTCLIP_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newWatchCmd(),
		newModeCmd(),
		newReformatCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("zotclip %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	fallback := slog.LevelInfo
	if interactive {
		fallback = slog.LevelDebug
	}
	logging.Setup(format, logging.ParseLevel(levelStr, fallback))
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/zotclip/internal/citation"
	"go.klb.dev/zotclip/internal/ipc"
	"go.klb.dev/zotclip/internal/message"
	"go.klb.dev/zotclip/internal/prefs"
	"go.klb.dev/zotclip/internal/wire"
)

func newModeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "mode [plain|markdown]",
		Short: "Show or change the active output mode",
		Long: `Without an argument, prints the active output mode. With an argument,
switches it:

  plain      rewrite citations to the bare title
  markdown   rewrite citations to [title](pdf-link)

When a watch daemon is running the change is applied there via the IPC
socket; otherwise the preference file is edited directly.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runMode(v, args) },
	}

	addPrefsFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runMode(v *viper.Viper, args []string) error {
	if len(args) == 0 {
		mode, err := currentMode(v)
		if err != nil {
			return err
		}
		fmt.Println(mode)
		return nil
	}

	mode, err := modeFromArg(args[0])
	if err != nil {
		return err
	}

	if ipc.IsRunning() {
		conn, err := ipc.Dial()
		if err == nil {
			defer conn.Close()
			wc := wire.New(conn)
			if err := wc.WriteMsg(&message.Message{Type: message.TypeModeSet, Mode: string(mode)}); err != nil {
				return fmt.Errorf("ipc: %w", err)
			}
			resp, err := wc.ReadMsg()
			if err != nil {
				return fmt.Errorf("ipc: %w", err)
			}
			fmt.Println(resp.Mode)
			return nil
		}
		slog.Warn("daemon socket present but unreachable, editing prefs directly", "err", err)
	}

	store := prefs.Open(v.GetString("prefs"))
	if err := store.SetMode(mode); err != nil {
		// The mode still applies for processes that re-read the file later;
		// surface the persistence problem without failing the command.
		slog.Warn("mode not persisted", "err", err)
	}
	fmt.Println(store.Mode())
	return nil
}

// currentMode asks a running daemon first, then falls back to the file.
func currentMode(v *viper.Viper) (citation.Mode, error) {
	if ipc.IsRunning() {
		if conn, err := ipc.Dial(); err == nil {
			defer conn.Close()
			wc := wire.New(conn)
			if err := wc.WriteMsg(&message.Message{Type: message.TypeModeGet}); err != nil {
				return "", fmt.Errorf("ipc: %w", err)
			}
			resp, err := wc.ReadMsg()
			if err != nil {
				return "", fmt.Errorf("ipc: %w", err)
			}
			return citation.ParseMode(resp.Mode), nil
		}
	}
	return prefs.Open(v.GetString("prefs")).Mode(), nil
}

// modeFromArg maps CLI aliases to modes. Unlike stored tokens, a bad
// argument is the user's typo and is rejected rather than defaulted.
func modeFromArg(arg string) (citation.Mode, error) {
	switch arg {
	case "plain", "text", string(citation.ModePlainText):
		return citation.ModePlainText, nil
	case "markdown", "md", string(citation.ModeMarkdownReference):
		return citation.ModeMarkdownReference, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want plain or markdown)", arg)
	}
}

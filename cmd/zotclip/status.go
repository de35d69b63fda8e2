package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/zotclip/internal/ipc"
	"go.klb.dev/zotclip/internal/message"
	"go.klb.dev/zotclip/internal/prefs"
	"go.klb.dev/zotclip/internal/wire"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of a running watch daemon",
		Long: `Displays the mode, clipboard backend, uptime and reformat count of a
running watch daemon, queried over the IPC socket. Without a daemon, only
the stored preference is shown.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addPrefsFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	jsonOut := v.GetBool("json")

	if !ipc.IsRunning() {
		store := prefs.Open(v.GetString("prefs"))
		if jsonOut {
			enc, _ := json.MarshalIndent(map[string]string{
				"running": "false",
				"mode":    string(store.Mode()),
			}, "", "  ")
			fmt.Println(string(enc))
			return nil
		}
		fmt.Println("No watch daemon running.")
		fmt.Printf("Stored mode: %s\n", store.Mode().DisplayName())
		return nil
	}

	conn, err := ipc.Dial()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteMsg(&message.Message{Type: message.TypeStatus}); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	resp, err := wc.ReadMsg()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if resp.Type == message.TypeError {
		return fmt.Errorf("status: %s", resp.Error)
	}
	if resp.Status == nil {
		return fmt.Errorf("status: empty response")
	}

	if jsonOut {
		enc, _ := json.MarshalIndent(resp.Status, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	printStatus(resp.Status)
	return nil
}

func printStatus(st *message.Status) {
	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Mode:\t%s\n", st.ModeDisplay)
	fmt.Fprintf(w, "Backend:\t%s\n", st.Backend)
	fmt.Fprintf(w, "PID:\t%d\n", st.PID)
	fmt.Fprintf(w, "Started:\t%s (%s)\n", st.StartedAt.Format(time.RFC3339), fmtAge(st.StartedAt))
	fmt.Fprintf(w, "Reformats:\t%d\n", st.Reformats)
	if !st.LastReformat.IsZero() {
		fmt.Fprintf(w, "Last reformat:\t%s\n", fmtAge(st.LastReformat))
	}
	fmt.Fprintf(w, "Prefs:\t%s\n", st.PrefsPath)
	fmt.Fprintf(w, "Socket:\t%s\n", ipc.SocketPath())
	_ = w.Flush()
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}

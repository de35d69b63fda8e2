package main

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/soheilhy/cmux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.design/x/hotkey"

	"go.klb.dev/zotclip/internal/citation"
	"go.klb.dev/zotclip/internal/clip"
	"go.klb.dev/zotclip/internal/engine"
	"go.klb.dev/zotclip/internal/ipc"
	"go.klb.dev/zotclip/internal/message"
	"go.klb.dev/zotclip/internal/notify"
	"go.klb.dev/zotclip/internal/prefs"
	"go.klb.dev/zotclip/internal/wire"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the clipboard and reformat Zotero citations",
		Long: `Runs the zotclip daemon. The clipboard is polled for changes; when new
text matches the Zotero citation shape it is rewritten in place using the
active output mode.

While running, "zotclip mode", "zotclip status" and "zotclip reformat" talk
to the daemon over a local IPC socket. The same socket answers plain HTTP:

  curl --unix-socket "$XDG_RUNTIME_DIR/zotclip.sock" http://zotclip/status

Config file search order:
  /etc/zotclip/zotclip.toml
  $HOME/.config/zotclip/zotclip.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → ZOTCLIP_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runWatch(v) },
	}

	f := cmd.Flags()
	f.Duration("poll-interval", 250*time.Millisecond, "clipboard poll interval")
	f.Duration("settle-delay", 300*time.Millisecond, "delay between hotkey trigger and clipboard read")
	f.Bool("hotkey", false, "also trigger on the global Ctrl+Shift+Z hotkey")
	f.Bool("notify", false, "show a desktop notification after each reformat")
	addPrefsFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

// daemon bundles the watch-mode state shared by the trigger worker, the IPC
// handlers and the HTTP status endpoint.
type daemon struct {
	store   *prefs.Store
	backend clip.Backend
	eng     *engine.Engine
	notify  bool

	startedAt    time.Time
	reformats    atomic.Int64
	lastReformat atomic.Int64 // unix nanos, 0 = never

	// cycleMu serializes the read-modify-write of the clipboard so an IPC
	// CHECK and the trigger worker cannot double-write.
	cycleMu sync.Mutex
}

func runWatch(v *viper.Viper) error {
	setupLogging(v)

	store := prefs.Open(v.GetString("prefs"))
	backend := clip.New(v.GetDuration("poll-interval"))
	defer backend.Close()

	d := &daemon{
		store:     store,
		backend:   backend,
		eng:       engine.New(store),
		notify:    v.GetBool("notify"),
		startedAt: time.Now(),
	}

	d.eng.AddObserver(func(original, transformed string) {
		d.reformats.Add(1)
		d.lastReformat.Store(time.Now().UnixNano())
		slog.Info("citation reformatted",
			"mode", store.Mode(),
			"original_len", len(original),
			"result", transformed,
		)
	})
	if d.notify {
		d.eng.AddObserver(notify.Reformatted)
	}

	slog.Info("zotclip watching",
		"version", Version,
		"mode", store.Mode(),
		"backend", backend.Name(),
		"prefs", store.Path(),
	)

	// Triggers are coalesced onto one channel consumed by a single worker,
	// so a slow clipboard write never blocks trigger detection.
	checkCh := make(chan struct{}, 1)
	trigger := func() {
		select {
		case checkCh <- struct{}{}:
		default:
		}
	}

	go func() {
		for range backend.Watch() {
			trigger()
		}
	}()

	if v.GetBool("hotkey") {
		go runHotkey(v.GetDuration("settle-delay"), trigger)
	}

	go func() {
		for range checkCh {
			d.checkClipboard()
		}
	}()

	// IPC socket for mode/status/reformat CLI tools, muxed with an HTTP
	// status endpoint on the same listener.
	ipcLn, err := ipc.Listen()
	if err != nil {
		slog.Warn("IPC socket unavailable", "err", err)
	} else {
		slog.Info("IPC socket listening", "path", ipc.SocketPath())
		m := cmux.New(ipcLn)
		httpLn := m.Match(cmux.HTTP1Fast())
		ctlLn := m.Match(cmux.Any())
		go serveHTTP(httpLn, d)
		go serveCtl(ctlLn, d)
		go func() {
			if err := m.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
				slog.Debug("IPC mux stopped", "err", err)
			}
		}()
		defer func() {
			_ = ipcLn.Close()
			_ = os.Remove(ipc.SocketPath())
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	slog.Info("shutting down", "signal", s)
	return nil
}

// checkClipboard runs one reformat cycle: read, decide, write back. Clipboard
// errors are soft — log and skip the cycle.
func (d *daemon) checkClipboard() engine.Outcome {
	d.cycleMu.Lock()
	defer d.cycleMu.Unlock()

	text, err := d.backend.ReadText()
	if err != nil {
		if errors.Is(err, clip.ErrNoText) {
			slog.Debug("clipboard holds no text, skipping")
		} else {
			slog.Warn("clipboard read failed, skipping cycle", "err", err)
		}
		return engine.Outcome{Kind: engine.Unchanged}
	}

	out := d.eng.Process(text)
	slog.Debug("clipboard checked", "outcome", out.Kind.String())

	if out.Kind == engine.Reformatted {
		if err := d.backend.WriteText(out.Transformed); err != nil {
			slog.Warn("clipboard write failed", "err", err)
		}
	}
	return out
}

// setMode makes mode active, persists it, and announces the change.
func (d *daemon) setMode(mode citation.Mode) {
	if err := d.store.SetMode(mode); err != nil {
		slog.Warn("mode change not persisted", "err", err)
	}
	slog.Info("mode changed", "mode", mode)
	if d.notify {
		notify.ModeChanged(mode.DisplayName())
	}
}

// status snapshots the daemon state for STATUS responses and /status.
func (d *daemon) status() *message.Status {
	st := &message.Status{
		Mode:        string(d.store.Mode()),
		ModeDisplay: d.store.Mode().DisplayName(),
		Backend:     d.backend.Name(),
		PID:         os.Getpid(),
		StartedAt:   d.startedAt,
		Reformats:   d.reformats.Load(),
		PrefsPath:   d.store.Path(),
	}
	if ns := d.lastReformat.Load(); ns > 0 {
		st.LastReformat = time.Unix(0, ns)
	}
	return st
}

// runHotkey registers the global Ctrl+Shift+Z hotkey and fires trigger after
// each press, waiting settleDelay first so the OS clipboard can settle.
//
// On macOS golang.design/x/hotkey needs main-thread dispatch
// (mainthread.Init wrapping main), which this goroutine does not provide:
// there Register fails, the warning below is logged, and clipboard polling
// remains the only trigger.
func runHotkey(settleDelay time.Duration, trigger func()) {
	hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyZ)
	if err := hk.Register(); err != nil {
		slog.Warn("hotkey registration failed", "err", err)
		return
	}
	defer func() { _ = hk.Unregister() }()
	slog.Info("hotkey registered", "combo", "ctrl+shift+z")

	for range hk.Keydown() {
		time.Sleep(settleDelay)
		trigger()
	}
}

// serveCtl accepts control-protocol connections on the IPC socket.
func serveCtl(ln net.Listener, d *daemon) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go handleCtlConn(conn, d)
	}
}

// handleCtlConn answers one request per connection, mirroring the one-shot
// CLI clients.
func handleCtlConn(conn net.Conn, d *daemon) {
	defer conn.Close()
	wc := wire.New(conn)

	msg, err := wc.ReadMsg()
	if err != nil {
		return
	}

	switch msg.Type {
	case message.TypeModeGet:
		_ = wc.WriteMsg(&message.Message{
			Type: message.TypeModeResponse,
			Mode: string(d.store.Mode()),
		})

	case message.TypeModeSet:
		d.setMode(citation.ParseMode(msg.Mode))
		_ = wc.WriteMsg(&message.Message{
			Type: message.TypeModeResponse,
			Mode: string(d.store.Mode()),
		})

	case message.TypeStatus:
		_ = wc.WriteMsg(&message.Message{
			Type:   message.TypeStatusResponse,
			Status: d.status(),
		})

	case message.TypeCheck:
		out := d.checkClipboard()
		_ = wc.WriteMsg(&message.Message{
			Type:    message.TypeCheckResponse,
			Outcome: out.Kind.String(),
		})

	default:
		_ = wc.WriteMsg(&message.Message{
			Type:  message.TypeError,
			Error: "unknown message type",
		})
	}
}

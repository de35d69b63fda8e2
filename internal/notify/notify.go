// Package notify shows transient desktop notifications via the platform
// notification service (notify-send/D-Bus, NSUserNotification, toast).
// Notification failures are logged and swallowed — a missing notification
// daemon must never break a reformat.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

const appName = "zotclip"

// Send shows a transient notification with the given body.
func Send(body string) {
	if err := beeep.Notify(appName, body, ""); err != nil {
		slog.Debug("notification failed", "err", err)
	}
}

// ModeChanged announces a new active output mode.
func ModeChanged(display string) {
	Send("Mode: " + display)
}

// Reformatted is an engine observer announcing a successful reformat.
func Reformatted(_, transformed string) {
	preview := transformed
	if len(preview) > 80 {
		preview = preview[:80] + "…"
	}
	Send("Reformatted: " + preview)
}

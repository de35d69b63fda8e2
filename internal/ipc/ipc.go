// Package ipc provides the local socket used by CLI sub-commands
// (mode/status/reformat) to talk to a running zotclip watch daemon.
//
// The channel carries newline-delimited JSON (see internal/message). The
// daemon listens on the socket; sub-commands probe for it and fall back to
// operating on the preference file or clipboard directly when it is absent.
package ipc

import (
	"net"
	"os"
	"path/filepath"
)

// SocketPath returns the platform-appropriate path for the IPC socket:
// $ZOTCLIP_SOCKET if set, $XDG_RUNTIME_DIR/zotclip.sock, otherwise
// $TMPDIR/zotclip.sock.
func SocketPath() string {
	if s := os.Getenv("ZOTCLIP_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "zotclip.sock")
	}
	return filepath.Join(os.TempDir(), "zotclip.sock")
}

// IsRunning reports whether a watch daemon appears to be listening on the
// IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.Dial("unix", SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates and returns a net.Listener on the IPC socket path, removing
// any stale socket file first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	// Remove stale socket from a previous (crashed) run.
	_ = os.Remove(path)
	return net.Listen("unix", path)
}

// Dial connects to a running watch daemon.
func Dial() (net.Conn, error) {
	return net.Dial("unix", SocketPath())
}

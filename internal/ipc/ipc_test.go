package ipc

import (
	"path/filepath"
	"testing"
)

func TestSocketPathOverride(t *testing.T) {
	t.Setenv("ZOTCLIP_SOCKET", "/tmp/custom.sock")
	if got := SocketPath(); got != "/tmp/custom.sock" {
		t.Fatalf("SocketPath() = %q", got)
	}
}

func TestSocketPathRuntimeDir(t *testing.T) {
	t.Setenv("ZOTCLIP_SOCKET", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	want := filepath.Join("/run/user/1000", "zotclip.sock")
	if got := SocketPath(); got != want {
		t.Fatalf("SocketPath() = %q, want %q", got, want)
	}
}

func TestListenAndIsRunning(t *testing.T) {
	t.Setenv("ZOTCLIP_SOCKET", filepath.Join(t.TempDir(), "zotclip.sock"))

	if IsRunning() {
		t.Fatal("IsRunning() = true before Listen")
	}
	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()
	if !IsRunning() {
		t.Fatal("IsRunning() = false with an active listener")
	}
}

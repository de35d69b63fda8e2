package wire

import (
	"net"
	"testing"

	"go.klb.dev/zotclip/internal/message"
)

func TestRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sent := &message.Message{Type: message.TypeModeSet, Mode: "markdown_reference"}

	errCh := make(chan error, 1)
	go func() { errCh <- New(a).WriteMsg(sent) }()

	got, err := New(b).ReadMsg()
	if err != nil {
		t.Fatalf("ReadMsg() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("WriteMsg() error = %v", err)
	}
	if got.Type != sent.Type || got.Mode != sent.Mode {
		t.Fatalf("got %+v, want %+v", got, sent)
	}
}

func TestReadMsgRejectsGarbage(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	go func() {
		_, _ = a.Write([]byte("not json\n"))
	}()

	if _, err := New(b).ReadMsg(); err == nil {
		t.Fatal("ReadMsg() expected an error for non-JSON input")
	}
}

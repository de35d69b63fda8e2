// Package wire handles reading and writing newline-delimited JSON messages
// over a net.Conn.
//
// Wire format: <json>\n — every line is a single message. Deadlines keep a
// wedged peer from blocking the daemon's IPC loop.
package wire

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"go.klb.dev/zotclip/internal/message"
)

const (
	// MaxMessageSize is the largest message we will read (1 MiB). Control
	// messages are tiny; anything bigger is a confused peer.
	MaxMessageSize = 1 * 1024 * 1024

	ioDeadline = 5 * time.Second
)

// Conn wraps a net.Conn with buffered newline-delimited JSON framing.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
}

// New wraps conn.
func New(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 16*1024),
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// WriteMsg serialises msg to JSON and writes it followed by a newline.
func (c *Conn) WriteMsg(msg *message.Message) error {
	raw, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(ioDeadline))
	_, err = c.conn.Write(append(raw, '\n'))
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadMsg reads one newline-terminated line and deserialises it.
func (c *Conn) ReadMsg() (*message.Message, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(ioDeadline))
	line, err := c.br.ReadBytes('\n')
	_ = c.conn.SetReadDeadline(time.Time{})
	if err != nil {
		return nil, err
	}
	if len(line) > MaxMessageSize {
		return nil, fmt.Errorf("message too large (%d bytes)", len(line))
	}

	return message.Decode(line[:len(line)-1])
}

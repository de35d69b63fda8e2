// Package message defines the zotclip control protocol spoken between the
// CLI sub-commands and a running watch daemon.
//
// All messages are newline-delimited JSON. Each message is exactly one line:
// <json>\n. The channel is a local, owner-restricted socket, so there is no
// auth and no encryption.
package message

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies the kind of message.
type Type string

const (
	TypeModeGet        Type = "MODE_GET" // request the active output mode
	TypeModeSet        Type = "MODE_SET" // change the active output mode
	TypeModeResponse   Type = "MODE_RESPONSE"
	TypeStatus         Type = "STATUS" // request daemon state
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeCheck          Type = "CHECK" // ask the daemon to re-check the clipboard now
	TypeCheckResponse  Type = "CHECK_RESPONSE"
	TypeError          Type = "ERROR"
)

// Status carries daemon state in a STATUS_RESPONSE.
type Status struct {
	Mode         string    `json:"mode"`
	ModeDisplay  string    `json:"mode_display"`
	Backend      string    `json:"backend"`
	PID          int       `json:"pid"`
	StartedAt    time.Time `json:"started_at"`
	Reformats    int64     `json:"reformats"`
	LastReformat time.Time `json:"last_reformat,omitzero"`
	PrefsPath    string    `json:"prefs_path"`
}

// Message is the top-level wire envelope.
type Message struct {
	Type Type `json:"type"`

	// MODE_SET / MODE_RESPONSE — the mode token ("plain_text", ...)
	Mode string `json:"mode,omitempty"`

	// CHECK_RESPONSE — what the re-check decided ("reformatted", ...)
	Outcome string `json:"outcome,omitempty"`

	// STATUS_RESPONSE
	Status *Status `json:"status,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}

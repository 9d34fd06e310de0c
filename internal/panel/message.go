package panel

import (
	"bytes"
	"encoding/json"

	"noteboard/internal/note"
)

const (
	TypeSnapshot = "SNAPSHOT"
	TypeDeleted  = "DELETED"
)

// Message is a frame exchanged between the board and the diary panel.
// Snapshot frames always carry a notes array, empty or not.
type Message struct {
	Type  string      `json:"type"`
	Notes []note.Note `json:"notes"`
	ID    string      `json:"id,omitempty"`
}

// Snapshot is the message carrying the filtered notes to the panel.
func Snapshot(notes []note.Note) Message {
	if notes == nil {
		notes = []note.Note{}
	}
	return Message{Type: TypeSnapshot, Notes: notes}
}

// decodeDeleted parses a DELETED frame. It reports false for anything that
// is not a JSON object of that type with a non-empty string id.
func decodeDeleted(payload []byte) (string, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return "", false
	}
	var typ, id string
	if err := json.Unmarshal(fields["type"], &typ); err != nil || typ != TypeDeleted {
		return "", false
	}
	if err := json.Unmarshal(fields["id"], &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

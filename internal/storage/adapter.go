package storage

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"noteboard/internal/logging"
	"noteboard/internal/note"
)

// DefaultKey is the storage key the board record lives under.
const DefaultKey = "noteboard_state"

// Record is the persisted form of the board.
type Record struct {
	Notes  []note.Note `json:"notes"`
	Filter string      `json:"filter"`
}

// Adapter reads and writes the board record in a KV store.
type Adapter struct {
	kv  KV
	key string
}

func NewAdapter(kv KV, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: kv, key: key}
}

func (a *Adapter) Key() string {
	return a.key
}

// Save writes rec. Failures are logged, never returned.
func (a *Adapter) Save(rec Record) {
	if rec.Notes == nil {
		rec.Notes = []note.Note{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		logging.Pkg("storage").Warn("encode board record failed", "key", a.key, "error", err)
		return
	}
	if err := a.kv.Set(a.key, string(data)); err != nil {
		logging.Pkg("storage").Warn("save board record failed", "key", a.key, "error", err)
	}
}

// Load returns the stored record. A missing, unreadable or malformed entry
// yields false; a malformed one is also removed from the store.
func (a *Adapter) Load() (Record, bool) {
	log := logging.Pkg("storage")
	raw, ok, err := a.kv.Get(a.key)
	if err != nil {
		log.Warn("read board record failed", "key", a.key, "error", err)
		return Record{}, false
	}
	if !ok || raw == "" {
		return Record{}, false
	}
	rec, err := decodeRecord([]byte(raw))
	if err != nil {
		log.Warn("discarding corrupt board record", "key", a.key, "error", err)
		if err := a.kv.Delete(a.key); err != nil {
			log.Warn("remove corrupt board record failed", "key", a.key, "error", err)
		}
		return Record{}, false
	}
	return rec, true
}

func decodeRecord(data []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Record{}, errors.Wrap(err, "decode record")
	}
	if fields == nil {
		return Record{}, errors.New("record is not an object")
	}
	notesRaw, ok := fields["notes"]
	if !ok || !isJSONKind(notesRaw, '[') {
		return Record{}, errors.New("notes is not an array")
	}
	filterRaw, ok := fields["filter"]
	if !ok || !isJSONKind(filterRaw, '"') {
		return Record{}, errors.New("filter is not a string")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(notesRaw, &items); err != nil {
		return Record{}, errors.Wrap(err, "decode notes")
	}
	rec := Record{Notes: make([]note.Note, 0, len(items))}
	for i, item := range items {
		if !isJSONKind(item, '{') {
			return Record{}, errors.Errorf("notes[%d] is not an object", i)
		}
		var n note.Note
		if err := json.Unmarshal(item, &n); err != nil {
			return Record{}, errors.Wrapf(err, "decode notes[%d]", i)
		}
		if n.ID == "" {
			return Record{}, errors.Errorf("notes[%d] has no id", i)
		}
		rec.Notes = append(rec.Notes, n)
	}
	if err := json.Unmarshal(filterRaw, &rec.Filter); err != nil {
		return Record{}, errors.Wrap(err, "decode filter")
	}
	return rec, nil
}

func isJSONKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}

// Package events carries progress notifications from background runs
// to SSE clients as pre-serialized JSON envelopes.
package events

import (
	"encoding/json"
	"time"
)

// Event is the envelope every SSE message travels in. Version lets a
// client skip envelope shapes newer than it understands.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent serializes an envelope of the given type. data may be nil
// for events that carry no payload. Marshal failures yield an envelope
// without data rather than an error; event delivery is best effort.
func MakeEvent(reqID, typ string, v int, data any) string {
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
	}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			e.Data = b
		}
	}
	b, _ := json.Marshal(e)
	return string(b)
}

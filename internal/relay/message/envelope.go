// Package message describes relay messages and how payloads are validated.
package message

import (
	"time"

	"github.com/wtask/relay/internal/relay/registry"
)

// Envelope - one message on its way from a reader to the broadcaster.
// Payload must not be modified after the envelope is built.
type Envelope struct {
	Sender   registry.ClientID
	Payload  []byte
	Received time.Time
}

// New - builds envelope owning a copy of payload.
func New(sender registry.ClientID, payload []byte) Envelope {
	return Envelope{
		Sender:   sender,
		Payload:  append([]byte(nil), payload...),
		Received: time.Now().UTC(),
	}
}

// Len - returns payload size in bytes.
func (e Envelope) Len() int {
	return len(e.Payload)
}

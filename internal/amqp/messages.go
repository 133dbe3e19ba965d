package amqp

import (
	"encoding/json"
	"time"

	"okane/internal/store"
)

// ChangeMessage announces one committed store mutation. It carries no record
// data; consumers re-read the store or an export.
type ChangeMessage struct {
	Kind       string    `json:"kind"`
	Collection string    `json:"collection"`
	ID         string    `json:"id,omitempty"`
	Revision   uint64    `json:"revision"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(ch store.Change) ChangeMessage {
	return ChangeMessage{
		Kind:       string(ch.Kind),
		Collection: string(ch.Collection),
		ID:         ch.ID,
		Revision:   ch.Revision,
		Timestamp:  time.Now(),
	}
}

func (m ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (ChangeMessage, error) {
	var msg ChangeMessage
	err := json.Unmarshal(data, &msg)
	return msg, err
}

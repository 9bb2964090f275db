package amqp

import (
	"encoding/json"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/storage"
)

// StateUpdateMessage carries a full dashboard state between instances.
// Origin lets a consumer drop its own echoes; UpdatedAt drives the
// last-writer-wins comparison on the receiving side.
type StateUpdateMessage struct {
	Origin    string          `json:"origin"`
	UpdatedAt time.Time       `json:"updatedAt"`
	State     json.RawMessage `json:"state"`
}

// NewStateUpdateMessage wraps a persisted state for broadcast.
func NewStateUpdateMessage(origin string, ps storage.PersistedState) (*StateUpdateMessage, error) {
	body, err := json.Marshal(ps)
	if err != nil {
		return nil, err
	}
	return &StateUpdateMessage{
		Origin:    origin,
		UpdatedAt: ps.UpdatedAt,
		State:     body,
	}, nil
}

// DecodeState unmarshals the embedded dashboard state.
func (m *StateUpdateMessage) DecodeState() (storage.PersistedState, error) {
	var ps storage.PersistedState
	if err := json.Unmarshal(m.State, &ps); err != nil {
		return storage.PersistedState{}, err
	}
	ps.WeeklyData.Normalize()
	return ps, nil
}

// ToJSON converts the message to JSON bytes
func (m *StateUpdateMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func StateUpdateMessageFromJSON(data []byte) (*StateUpdateMessage, error) {
	var msg StateUpdateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

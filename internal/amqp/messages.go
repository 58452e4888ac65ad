package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Entities that publish changes.
const (
	EntityClient  = "client"
	EntityVendor  = "vendor"
	EntityEvent   = "event"
	EntityBudget  = "budget"
	EntityExpense = "expense"
	EntityRole    = "user_role"
	EntityProfile = "profile"
)

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

var ErrMalformedMessage = errors.New("malformed change message")

// ChangeMessage announces that a record was created, updated or deleted.
// Consumers re-read the record if they need more than the id.
type ChangeMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(entity, action, id, owner string) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Owner:     owner,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ChangeMessage) Validate() error {
	if m.Entity == "" || m.ID == "" {
		return ErrMalformedMessage
	}
	switch m.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return nil
	}
	return ErrMalformedMessage
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes and validates a message body.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.Join(ErrMalformedMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

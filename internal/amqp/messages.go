package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"financas/internal/core"

	"github.com/google/uuid"
)

// Ledger change operations.
const (
	OpAppend = "append"
	OpClear  = "clear"
)

// LedgerChangedMessage announces that the stored ledger was modified. Rows
// carries the appended rows for OpAppend and is empty for OpClear; consumers
// needing the full ledger reload it from the store.
type LedgerChangedMessage struct {
	ID        string     `json:"id"`
	Op        string     `json:"op"`
	Rows      []core.Row `json:"rows,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewLedgerChangedMessage creates a message with a fresh ID.
func NewLedgerChangedMessage(op string, rows []core.Row) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		ID:        uuid.NewString(),
		Op:        op,
		Rows:      rows,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes and checks a message body.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(msg.ID); err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", msg.ID, err)
	}
	switch msg.Op {
	case OpAppend, OpClear:
	default:
		return nil, fmt.Errorf("unknown ledger operation %q", msg.Op)
	}
	return &msg, nil
}

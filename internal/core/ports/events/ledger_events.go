package events

import (
	"context"
	"encoding/json"
	"time"
)

// LedgerEventType names what happened to a customer's ledger.
type LedgerEventType string

const (
	// TransactionsRecorded is published after new records were committed.
	TransactionsRecorded LedgerEventType = "transactions.recorded"
	// RecomputeRequested asks for a recomputation without a new write, e.g. from an operator.
	RecomputeRequested LedgerEventType = "recompute.requested"
)

// LedgerEvent carries only identifiers. Consumers reload the ledger from storage.
type LedgerEvent struct {
	Type           LedgerEventType `json:"type"`
	CustomerID     string          `json:"customerID"`
	TransactionIDs []string        `json:"transactionIDs,omitempty"`
	// EarliestOccurredAt is the oldest occurredAt among the new records; everything after it
	// has to be recomputed.
	EarliestOccurredAt time.Time `json:"earliestOccurredAt,omitempty"`
	PublishedAt        time.Time `json:"publishedAt"`
}

func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// LedgerEventHandler processes one event. A returned error asks for redelivery.
type LedgerEventHandler func(ctx context.Context, event LedgerEvent) error

type LedgerEventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event LedgerEvent) error
}

type LedgerEventConsumer interface {
	// ConsumeLedgerEvents blocks, dispatching events to handler until ctx is done.
	ConsumeLedgerEvents(ctx context.Context, handler LedgerEventHandler) error
}

// LedgerEventBus is implemented by both the AMQP client and the in-process bus.
type LedgerEventBus interface {
	LedgerEventPublisher
	LedgerEventConsumer
	Close() error
}

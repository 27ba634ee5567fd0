// Package inproc is a channel-backed ledger event bus used when no broker is configured.
package inproc

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/SscSPs/customer_ledger/internal/core/ports/events"
)

// ErrBusFull is returned when the buffer is full. Publishing never blocks the write path.
var ErrBusFull = errors.New("ledger event bus is full")

// ErrBusClosed is returned by PublishLedgerEvent after Close.
var ErrBusClosed = errors.New("ledger event bus is closed")

type Bus struct {
	mu     sync.RWMutex
	ch     chan events.LedgerEvent
	closed bool
}

var _ events.LedgerEventBus = (*Bus)(nil)

// NewBus creates a bus buffering up to size events.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 1
	}
	return &Bus{ch: make(chan events.LedgerEvent, size)}
}

func (b *Bus) PublishLedgerEvent(_ context.Context, event events.LedgerEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.ch <- event:
		return nil
	default:
		return ErrBusFull
	}
}

// ConsumeLedgerEvents runs handler for each event until ctx is done or the bus is closed.
// A failed event is logged and dropped; the next write for the customer recomputes it.
func (b *Bus) ConsumeLedgerEvents(ctx context.Context, handler events.LedgerEventHandler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-b.ch:
			if !ok {
				return nil
			}
			if err := handler(ctx, event); err != nil {
				slog.ErrorContext(ctx, "Failed to handle ledger event",
					"error", err,
					"type", event.Type,
					"customer_id", event.CustomerID)
			}
		}
	}
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	return nil
}

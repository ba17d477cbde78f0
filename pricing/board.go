package pricing

import (
	"context"
	"errors"
	"sync"
	"time"

	"funpass/entities"
	"funpass/message/event"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

type PriceReader interface {
	GetAll(ctx context.Context) ([]entities.PriceEntry, error)
}

type Subscriber interface {
	Subscribe(handler event.Handler) event.Subscription
	Unsubscribe(subscription event.Subscription) bool
}

// PriceBoard is the price view of a ticket-selling screen. It reads the
// store once when created and again every time prices change.
type PriceBoard struct {
	reader       PriceReader
	subscriber   Subscriber
	subscription event.Subscription

	mu          sync.RWMutex
	entries     []entities.PriceEntry
	refreshedAt time.Time
}

func NewPriceBoard(ctx context.Context, reader PriceReader, subscriber Subscriber) (*PriceBoard, error) {
	if reader == nil {
		panic("missing price reader")
	}
	if subscriber == nil {
		panic("missing subscriber")
	}

	board := &PriceBoard{
		reader:     reader,
		subscriber: subscriber,
	}
	if err := board.Refresh(ctx); err != nil {
		return nil, err
	}

	board.subscription = subscriber.Subscribe(board.onPricesChanged)

	return board, nil
}

func (b *PriceBoard) onPricesChanged(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil {
		boardRefreshFailures.Inc()
		log.FromContext(ctx).WithError(err).Warn("Could not refresh price board, keeping previous prices")
	}
}

// Refresh re-reads every price from the store. On failure the previous
// prices stay in place.
func (b *PriceBoard) Refresh(ctx context.Context) error {
	entries, err := b.reader.GetAll(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = entries
	b.refreshedAt = time.Now()

	return nil
}

func (b *PriceBoard) Prices() []entities.PriceEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := make([]entities.PriceEntry, len(b.entries))
	copy(entries, b.entries)
	return entries
}

func (b *PriceBoard) Price(passType entities.PassType) (entities.Price, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, entry := range b.entries {
		if entry.PassType == passType {
			return entry.Price, true
		}
	}
	return entities.Price{}, false
}

// Quote returns the amount due for quantity passes of passType.
func (b *PriceBoard) Quote(passType entities.PassType, quantity int) (entities.Price, error) {
	if quantity < 1 {
		return entities.Price{}, ErrInvalidQuantity
	}

	price, ok := b.Price(passType)
	if !ok {
		return entities.Price{}, entities.ErrUnknownPassType
	}

	return price.Mul(quantity), nil
}

func (b *PriceBoard) RefreshedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.refreshedAt
}

// Close stops listening for price changes.
func (b *PriceBoard) Close() {
	b.subscriber.Unsubscribe(b.subscription)
}

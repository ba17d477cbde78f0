package event

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

// Handler is invoked after prices were changed. It carries no payload:
// handlers re-read the pricing store to see the new values. ctx holds the
// logger of the notification round.
type Handler func(ctx context.Context)

type Subscription struct {
	id uint64
}

// Publisher is what writers of the pricing store depend on to announce a
// change.
type Publisher interface {
	Publish(ctx context.Context)
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is the in-process price change notifier. Create one per process
// and hand it to every component that publishes or listens.
type Bus struct {
	mu          sync.Mutex
	lastID      uint64
	subscribers []subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(handler Handler) Subscription {
	if handler == nil {
		panic("handler is nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastID++
	b.subscribers = append(b.subscribers, subscriber{id: b.lastID, handler: handler})

	return Subscription{id: b.lastID}
}

// Unsubscribe removes the subscription and reports whether it was still
// registered. It may be called from inside a handler.
func (b *Bus) Unsubscribe(subscription Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscribers {
		if s.id == subscription.id {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subscribers)
}

// Publish synchronously calls every handler that was subscribed when the
// round started. Subscribing or unsubscribing from a handler takes effect
// from the next round. A panicking handler is logged and skipped.
func (b *Bus) Publish(ctx context.Context) {
	b.mu.Lock()
	round := make([]subscriber, len(b.subscribers))
	copy(round, b.subscribers)
	b.mu.Unlock()

	logger := log.FromContext(ctx).WithFields(logrus.Fields{
		"notification_id": shortuuid.New(),
		"correlation_id":  log.CorrelationIDFromContext(ctx),
		"subscribers":     len(round),
	})
	logger.Debug("Publishing price change")
	ctx = log.ToContext(ctx, logger)

	for _, s := range round {
		deliver(ctx, logger, s)
	}

	notificationsTotal.Inc()
}

func deliver(ctx context.Context, logger *logrus.Entry, s subscriber) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(logrus.Fields{
				"subscription": s.id,
				"panic":        r,
			}).Error("Price change handler panicked")
		}
	}()

	s.handler(ctx)
}

// Package notify delivers state change notifications to subscribers.
package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Kind identifies what changed
type Kind string

const (
	EventCreated        Kind = "event.created"
	EventUpdated        Kind = "event.updated"
	EventDeleted        Kind = "event.deleted"
	CurrentEventChanged Kind = "event.current"
	CartItemAdded       Kind = "cart.added"
	CartItemRemoved     Kind = "cart.removed"
	CartCleared         Kind = "cart.cleared"
	DishSaved           Kind = "dish.saved"
	DishDeleted         Kind = "dish.deleted"
	ProductSaved        Kind = "product.saved"
	ProductDeleted      Kind = "product.deleted"
	LookupChanged       Kind = "lookup.changed"
	SettingsChanged     Kind = "settings.changed"
	DataCleared         Kind = "data.cleared"
)

// Change describes one committed mutation
type Change struct {
	Seq       uint64    `json:"seq"`
	Kind      Kind      `json:"kind"`
	EventID   string    `json:"eventId,omitempty"`
	DishID    string    `json:"dishId,omitempty"`
	ProductID string    `json:"productId,omitempty"`
	At        time.Time `json:"at"`
}

// Handler receives changes
type Handler func(Change)

// Bus is a synchronous publish/subscribe hub. Publish calls every handler in
// subscription order before returning, so handlers see changes in the order
// they were published and none are dropped.
type Bus struct {
	mu       sync.RWMutex
	logger   *logrus.Logger
	nextID   int
	seq      uint64
	handlers []subscription
}

type subscription struct {
	id      int
	handler Handler
}

// NewBus creates an empty bus
func NewBus(logger *logrus.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers h and returns a function that removes it
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.handlers {
		if s.id == id {
			b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
			return
		}
	}
}

// Publish stamps c with the next sequence number and delivers it. Callers
// must serialize Publish calls to get a total order.
func (b *Bus) Publish(c Change) Change {
	b.mu.Lock()
	b.seq++
	c.Seq = b.seq
	if c.At.IsZero() {
		c.At = time.Now()
	}
	handlers := make([]subscription, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, s := range handlers {
		b.deliver(s.handler, c)
	}
	return c
}

// Subscribers returns the number of registered handlers
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus) deliver(h Handler, c Change) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"kind": c.Kind,
				"seq":  c.Seq,
			}).Errorf("Panic in change handler: %v", r)
		}
	}()
	h(c)
}

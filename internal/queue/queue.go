// internal/queue/queue.go
package queue

import (
	"fmt"
	"sync"
)

// Queue is the pub/sub abstraction the vendor publishes delivery
// receipts on. Receipts are correlated downstream purely by vendor
// message id, never by any state from the send that produced them, so
// the in-memory implementation and an AMQP broker are interchangeable.
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers each published payload to every subscriber on
// its own goroutine. There is no retry and no redelivery: a receipt
// the handler cannot process is logged by the handler and dropped,
// matching the no-retry policy of the dispatch core.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// Publish sends a payload to all subscribers of the topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		h := handler
		go func() {
			_ = h(payload)
		}()
	}
	return nil
}

// Subscribe adds a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)

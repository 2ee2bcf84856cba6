package broadcast

import (
	"sync"

	"github.com/google/uuid"
)

// Broadcaster fans a message out to every currently-connected subscriber.
// Volatile and single-process: no replay for late subscribers, no
// durability. A subscriber whose channel is full misses the message.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]chan string
	buffer int
}

// Subscription is one registered listener. Receive on C until the
// subscription is removed with Unsubscribe, which closes C.
type Subscription struct {
	ID string
	C  <-chan string
}

func New(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		subs:   make(map[string]chan string),
		buffer: buffer,
	}
}

// Subscribe registers a fresh channel. Messages published before this
// call are never delivered to the new subscriber.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan string, b.buffer)
	id := uuid.NewString()

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return &Subscription{ID: id, C: ch}
}

// Unsubscribe removes the subscription and closes its channel.
// Safe to call more than once.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[sub.ID]; ok {
		delete(b.subs, sub.ID)
		close(ch)
	}
}

// Publish delivers msg to every registered subscriber in no particular
// order. The send never blocks: a full channel drops the message for
// that subscriber. Publishing with zero subscribers is a no-op.
func (b *Broadcaster) Publish(msg string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount returns the number of currently-registered subscribers
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

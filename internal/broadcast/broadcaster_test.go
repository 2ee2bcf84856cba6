package broadcast

import (
	"sync"
	"testing"
	"time"
)

func TestPublish_NoSubscribers(t *testing.T) {
	b := New(4)

	// Must not panic or block
	b.Publish("nobody listening")

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}

func TestPublish_DeliversToAllSubscribers(t *testing.T) {
	b := New(4)

	first := b.Subscribe()
	second := b.Subscribe()
	defer b.Unsubscribe(first)
	defer b.Unsubscribe(second)

	b.Publish("hello")

	for _, sub := range []*Subscription{first, second} {
		select {
		case msg := <-sub.C:
			if msg != "hello" {
				t.Errorf("expected %q, got %q", "hello", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive message")
		}
	}
}

func TestSubscribe_NoReplay(t *testing.T) {
	b := New(4)

	b.Publish("before")

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	select {
	case msg := <-sub.C:
		t.Errorf("late subscriber received earlier message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublish_DropsWhenChannelFull(t *testing.T) {
	b := New(1)

	slow := b.Subscribe()
	defer b.Unsubscribe(slow)

	b.Publish("first")
	b.Publish("second") // dropped, slow never drained

	msg := <-slow.C
	if msg != "first" {
		t.Errorf("expected %q, got %q", "first", msg)
	}

	select {
	case msg := <-slow.C:
		t.Errorf("expected dropped message, got %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe_ClosesChannelAndStopsDelivery(t *testing.T) {
	b := New(4)

	sub := b.Subscribe()
	b.Unsubscribe(sub)

	if _, ok := <-sub.C; ok {
		t.Error("expected closed channel after unsubscribe")
	}

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}

	// Second unsubscribe is a no-op
	b.Unsubscribe(sub)
}

func TestPublish_ConcurrentSubscribers(t *testing.T) {
	b := New(8)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := b.Subscribe()
			b.Publish("msg")
			b.Unsubscribe(sub)
		}()
	}
	wg.Wait()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after churn, got %d", b.SubscriberCount())
	}
}

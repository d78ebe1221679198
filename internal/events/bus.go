package events

import (
	"sync"
	"time"
)

// TopicChatCreated carries a chat.Chat payload for every created chat.
const TopicChatCreated = "CHAT_CREATED"

const subscriberBuffer = 16

type Event struct {
	Topic     string      `json:"topic"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Bus is an in-process fan-out broker keyed by topic. Delivery is
// at-most-once per live subscriber; there is no persistence or replay, so
// subscribers registered after a publish never see it.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
}

// Subscription is a live consumer of one topic. Events arrive on C until
// Close is called, at which point C is closed and no further delivery is
// attempted.
type Subscription struct {
	C chan Event

	topic string
	bus   *Bus
	once  sync.Once
}

func NewBus() *Bus {
	return &Bus{
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a consumer for topic. The caller must Close the
// subscription when done.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		C:     make(chan Event, subscriberBuffer),
		topic: topic,
		bus:   b,
	}

	b.mu.Lock()
	if _, ok := b.topics[topic]; !ok {
		b.topics[topic] = make(map[*Subscription]struct{})
	}
	b.topics[topic][sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Publish fans payload out to every subscriber currently registered on
// topic. A subscriber whose buffer is full misses the event; a slow
// consumer never blocks the publisher or its peers.
func (b *Bus) Publish(topic string, payload interface{}) {
	event := Event{
		Topic:     topic,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.topics[topic] {
		select {
		case sub.C <- event:
		default:
			// Buffer full, event dropped for this subscriber.
		}
	}
}

// SubscriberCount returns the number of live subscribers on topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close removes the subscription from the registry and closes C. It is
// safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if subs, ok := s.bus.topics[s.topic]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.bus.topics, s.topic)
			}
		}
		s.bus.mu.Unlock()
		close(s.C)
	})
}

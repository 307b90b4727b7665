package events

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	// topicQueueSize bounds how many undelivered events a topic may hold
	// before publishes start being dropped.
	topicQueueSize = 256
	// subscriberBufferSize bounds a single subscriber's backlog. A
	// subscriber that falls this far behind loses events rather than
	// stalling the topic.
	subscriberBufferSize = 64
)

// MemoryBroker is the in-process Broker used for single-instance
// deployments. A message-queue-backed implementation can replace it behind
// the same interface for multi-instance setups.
//
// Each topic owns one dispatch goroutine, so subscribers of a topic observe
// events in exactly the order they were published (per-tenant FIFO). No
// ordering is guaranteed across topics.
type MemoryBroker struct {
	mu     sync.RWMutex
	topics map[string]*topicState
	closed bool
	logger zerolog.Logger
}

type topicState struct {
	queue chan Event

	mu   sync.Mutex
	subs map[int]*subscriber
	next int
	done chan struct{}
}

// subscriber owns its channel's close so that a subscriber-side cancel and
// a broker-side Close racing each other close it exactly once.
type subscriber struct {
	ch   chan Event
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// NewMemoryBroker creates a broker with no topics; topics are created on
// first publish or subscribe.
func NewMemoryBroker(logger zerolog.Logger) *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[string]*topicState),
		logger: logger,
	}
}

func (b *MemoryBroker) topic(name string) *topicState {
	b.mu.RLock()
	t, ok := b.topics[name]
	b.mu.RUnlock()
	if ok {
		return t
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	if t, ok = b.topics[name]; ok {
		return t
	}

	t = &topicState{
		queue: make(chan Event, topicQueueSize),
		subs:  make(map[int]*subscriber),
		done:  make(chan struct{}),
	}
	b.topics[name] = t
	go b.dispatch(name, t)
	return t
}

// dispatch delivers queued events to every subscriber of the topic, in
// order. A subscriber whose buffer is full is skipped for that event.
func (b *MemoryBroker) dispatch(name string, t *topicState) {
	for {
		select {
		case event := <-t.queue:
			t.mu.Lock()
			for id, sub := range t.subs {
				select {
				case sub.ch <- event:
				default:
					b.logger.Warn().
						Str("topic", name).
						Int("subscriber", id).
						Str("event", event.Event).
						Msg("Dropping event for slow subscriber")
				}
			}
			t.mu.Unlock()
		case <-t.done:
			return
		}
	}
}

// Publish enqueues the event for the topic. It never blocks: when the topic
// queue is full the event is dropped and logged, and the triggering mutation
// is unaffected.
func (b *MemoryBroker) Publish(topic string, event Event) {
	t := b.topic(topic)
	if t == nil {
		return
	}

	select {
	case t.queue <- event:
	default:
		b.logger.Error().
			Str("topic", topic).
			Str("event", event.Event).
			Msg("Topic queue full, event dropped")
	}
}

// Subscribe registers a subscriber on the topic.
func (b *MemoryBroker) Subscribe(topic string) (<-chan Event, func()) {
	t := b.topic(topic)
	if t == nil {
		closed := make(chan Event)
		close(closed)
		return closed, func() {}
	}

	sub := &subscriber{ch: make(chan Event, subscriberBufferSize)}

	t.mu.Lock()
	id := t.next
	t.next++
	t.subs[id] = sub
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

// Close stops all topic dispatchers and closes subscriber channels.
func (b *MemoryBroker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	topics := b.topics
	b.topics = make(map[string]*topicState)
	b.mu.Unlock()

	for _, t := range topics {
		close(t.done)
		t.mu.Lock()
		for id, sub := range t.subs {
			delete(t.subs, id)
			sub.close()
		}
		t.mu.Unlock()
	}
}

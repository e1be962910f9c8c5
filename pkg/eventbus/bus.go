// Copyright (C) 2025 Josh Simonot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package eventbus

import (
	"context"
	"sync"
	"sync/atomic"

	"paperdash/pkg/logger"
)

type Topic string
type Event = any

// Bus implements an in-memory pub/sub where the most recent event
// is the only one kept per subscriber.
type Bus struct {
	log       *logger.Logger
	mu        sync.RWMutex
	subs      map[Topic]map[uint64]chan Event
	last      map[Topic]Event
	idCounter uint64
	closed    atomic.Bool

	eventCount       atomic.Int64
	sendCount        atomic.Int64
	sendDropCount    atomic.Int64
	sendReplaceCount atomic.Int64
}

// Stats is a point in time copy of the bus counters.
type Stats struct {
	Events      int64
	Sent        int64
	Replaced    int64
	Dropped     int64
	Subscribers int
}

func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := 0
	for _, m := range b.subs {
		n += len(m)
	}
	b.mu.RUnlock()

	return Stats{
		Events:      b.eventCount.Load(),
		Sent:        b.sendCount.Load(),
		Replaced:    b.sendReplaceCount.Load(),
		Dropped:     b.sendDropCount.Load(),
		Subscribers: n,
	}
}

// New returns an initialized Bus.
func New() *Bus {
	return &Bus{
		log:  logger.New("EventBus"),
		subs: make(map[Topic]map[uint64]chan Event),
		last: make(map[Topic]Event),
	}
}

// Publish stores ev as the last event for topic and hands it to every
// subscriber, replacing any value the subscriber has not read yet.
func (b *Bus) Publish(topic Topic, ev Event) {
	if b.closed.Load() {
		return
	}

	b.eventCount.Add(1)

	b.mu.Lock()
	b.last[topic] = ev

	// copy so no lock is held while sending
	var chans []chan Event
	if m, ok := b.subs[topic]; ok {
		chans = make([]chan Event, 0, len(m))
		for _, ch := range m {
			chans = append(chans, ch)
		}
	}
	b.mu.Unlock()

	for _, ch := range chans {
		b.publishReplace(topic, ch, ev)
	}
}

// publishReplace never blocks: a full channel has its old value drained first.
func (b *Bus) publishReplace(topic Topic, ch chan Event, ev Event) {
	select {
	case ch <- ev:
		b.sendCount.Add(1)
		return
	default:
	}

	select {
	case <-ch:
		b.sendReplaceCount.Add(1)
	default:
	}
	select {
	case ch <- ev:
	default:
		b.log.Error("dropped event on %s", topic)
		b.sendDropCount.Add(1)
		return
	}
	b.sendCount.Add(1)
}

// Subscribe subscribes to a topic and returns a receive-only channel and an unsubscribe func.
// If withLast is true the stored last event, if any, is delivered immediately.
// The channel is closed when ctx is canceled, unsubscribe is called or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic Topic, withLast bool) (<-chan Event, func()) {

	if b.closed.Load() {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	ch := make(chan Event, 1)
	id := atomic.AddUint64(&b.idCounter, 1)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]chan Event)
	}
	b.subs[topic][id] = ch

	var last Event
	var hasLast bool
	if withLast {
		last, hasLast = b.last[topic]
	}
	b.mu.Unlock()

	if hasLast {
		b.publishReplace(topic, ch, last)
	}

	done := make(chan struct{})
	var doneOnce sync.Once
	unsub := func() {
		doneOnce.Do(func() { close(done) })
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}

		// Close may already have closed ch; only the owner of the map entry closes it
		b.mu.Lock()
		owned := false
		if m, ok := b.subs[topic]; ok {
			if _, ok := m[id]; ok {
				owned = true
				delete(m, id)
			}
			if len(m) == 0 {
				delete(b.subs, topic)
			}
		}
		b.mu.Unlock()
		if owned {
			close(ch)
		}
	}()

	return ch, unsub
}

// GetLast returns the last published event for a topic (if any).
func (b *Bus) GetLast(topic Topic) (Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.last[topic]
	return v, ok
}

// Close closes the bus and all subscriber channels. After Close, Publish is a no-op and Subscribe
// returns a closed channel.
func (b *Bus) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.mu.Lock()
	for _, m := range b.subs {
		for _, ch := range m {
			close(ch)
		}
	}
	b.subs = make(map[Topic]map[uint64]chan Event)
	b.last = make(map[Topic]Event)
	b.mu.Unlock()
}

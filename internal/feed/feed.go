// Package feed provides a small latest-wins broadcaster. Producers publish
// snapshots and slow subscribers never block them: a subscriber that has not
// drained yet simply gets the newest value instead of a backlog.
package feed

import "sync"

type Feed[T any] struct {
	mu     sync.Mutex
	latest T
	seeded bool
	subs   map[chan T]struct{}
}

func New[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[chan T]struct{})}
}

// Publish stores v as the latest value and offers it to every subscriber,
// replacing any value they have not consumed yet.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = v
	f.seeded = true
	for ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribe registers a channel that receives each published value, starting
// with the current one if any. Call the returned cancel func when done.
func (f *Feed[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	if f.seeded {
		ch <- f.latest
	}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
	}
	return ch, cancel
}

// Latest returns the most recently published value and whether one exists.
func (f *Feed[T]) Latest() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.seeded
}

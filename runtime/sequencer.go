package runtime

import (
	"sync"
	"time"
)

// clockRetention is how long an idle conversation keeps its clock. Past that the
// wall clock is ahead of the last stamp anyway, so a fresh clock stays ordered.
const clockRetention = 5 * time.Second

type conversationClock struct {
	mu   sync.Mutex
	last time.Time

	users int // guarded by sequencer.mu
}

// sequencer serializes writes per conversation and hands out strictly
// increasing timestamps, so persistence order is invocation order.
type sequencer struct {
	mu        sync.Mutex
	clocks    map[string]*conversationClock
	now       func() time.Time
	lastSweep time.Time
}

func newSequencer(now func() time.Time) *sequencer {
	return &sequencer{clocks: make(map[string]*conversationClock), now: now}
}

// Do runs fn with the next timestamp of scope while holding the scope lock.
func (s *sequencer) Do(scope string, fn func(at time.Time) error) error {
	clock := s.acquire(scope)
	defer s.release(clock)

	clock.mu.Lock()
	defer clock.mu.Unlock()

	at := s.now().UTC()
	if !at.After(clock.last) {
		at = clock.last.Add(time.Nanosecond)
	}
	if err := fn(at); err != nil {
		return err
	}
	clock.last = at
	return nil
}

func (s *sequencer) acquire(scope string) *conversationClock {
	s.mu.Lock()
	defer s.mu.Unlock()
	clock, ok := s.clocks[scope]
	if !ok {
		clock = &conversationClock{}
		s.clocks[scope] = clock
	}
	clock.users++
	return clock
}

// release drops the caller's hold and, at most once per retention period,
// evicts the clocks nobody holds that have been idle longer than it.
func (s *sequencer) release(clock *conversationClock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clock.users--

	now := s.now()
	if now.Sub(s.lastSweep) < clockRetention {
		return
	}
	s.lastSweep = now
	for scope, c := range s.clocks {
		if c.users == 0 && now.Sub(c.last) > clockRetention {
			delete(s.clocks, scope)
		}
	}
}

func (s *sequencer) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clocks)
}

// Package loading tracks the global loading indicator shared by views.
//
// Only the most recent activation owns the flag: Begin hands out a Token bound
// to a generation, and a token whose generation was superseded can no longer
// clear the flag, immediately or through a delayed clear.
package loading

import (
	"sync"
	"time"
)

type State struct {
	mu          sync.Mutex
	loading     bool
	generation  uint64
	timer       *time.Timer
	subscribers map[chan bool]struct{}
}

type Token struct {
	state      *State
	generation uint64
}

func New(initial bool) *State {
	return &State{
		loading:     initial,
		subscribers: make(map[chan bool]struct{}),
	}
}

func (s *State) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Begin sets the flag and makes the returned token its only owner.
func (s *State) Begin() *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.stopTimer()
	s.set(true)
	return &Token{state: s, generation: s.generation}
}

// Subscribe returns a channel receiving the latest flag value after each change.
// Slow readers only observe the most recent value. The returned func closes
// the channel.
func (s *State) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.loading
	s.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// must hold mu
func (s *State) set(value bool) {
	if s.loading == value {
		return
	}
	s.loading = value
	for ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- value
	}
}

// must hold mu
func (s *State) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Current reports whether no later Begin has superseded the token.
func (t *Token) Current() bool {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	return t.generation == t.state.generation
}

// Clear drops the flag if the token still owns it.
func (t *Token) Clear() bool {
	s := t.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.generation != s.generation {
		return false
	}
	s.stopTimer()
	s.set(false)
	return true
}

// ClearAfter clears the flag once d has elapsed, unless a later Begin
// supersedes the token first.
func (t *Token) ClearAfter(d time.Duration) {
	s := t.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.generation != s.generation {
		return
	}
	s.stopTimer()
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timer != timer || t.generation != s.generation {
			return
		}
		s.timer = nil
		s.set(false)
	})
	s.timer = timer
}

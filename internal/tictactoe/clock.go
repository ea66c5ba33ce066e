package tictactoe

import (
	"sync"
	"time"
)

// TurnClock - one pending turn deadline per room key.
type TurnClock struct {
	mu      sync.Mutex
	timeout time.Duration
	timers  map[string]*clockTimer
}

type clockTimer struct {
	timer *time.Timer
}

func NewTurnClock(timeout time.Duration) *TurnClock {
	return &TurnClock{
		timeout: timeout,
		timers:  make(map[string]*clockTimer),
	}
}

func (that *TurnClock) Timeout() time.Duration {
	return that.timeout
}

// Arm - cancels the pending deadline of the room and schedules a new one.
// onExpire runs on its own goroutine and must re-check that the room is still alive.
func (that *TurnClock) Arm(key string, onExpire func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if pending, ok := that.timers[key]; ok {
		pending.timer.Stop()
	}

	entry := &clockTimer{}
	entry.timer = time.AfterFunc(that.timeout, func() {
		that.mu.Lock()
		if that.timers[key] == entry {
			delete(that.timers, key)
		}
		that.mu.Unlock()

		onExpire()
	})

	that.timers[key] = entry
}

// Disarm - cancels the pending deadline of the room without scheduling another.
func (that *TurnClock) Disarm(key string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if pending, ok := that.timers[key]; ok {
		pending.timer.Stop()
		delete(that.timers, key)
	}
}

func (that *TurnClock) DisarmAll() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for key, pending := range that.timers {
		pending.timer.Stop()
		delete(that.timers, key)
	}
}

// Pending - number of armed rooms.
func (that *TurnClock) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.timers)
}

func (that *TurnClock) IsArmed(key string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.timers[key]

	return ok
}

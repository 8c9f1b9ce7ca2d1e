package gateway

import (
	"sync"

	"github.com/HBDK/Tilted/pkg/reading"
)

// Mailbox is the single staging slot between the receive callback and the
// main loop. Contract: one producer (the radio callback), one consumer (the
// loop). A new arrival while a result is still pending overwrites it —
// last-write-wins, no queue — so a consumer that wants no loss must drain
// promptly. That matches the link's at-most-once delivery: a dropped overwrite
// is indistinguishable from a dropped frame.
type Mailbox struct {
	mu      sync.Mutex
	pending reading.Reading
	ready   bool
}

// Put stages a reading, replacing any pending one.
func (m *Mailbox) Put(r reading.Reading) {
	m.mu.Lock()
	m.pending = r
	m.ready = true
	m.mu.Unlock()
}

// Take returns and clears the pending reading.
func (m *Mailbox) Take() (reading.Reading, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return reading.Reading{}, false
	}
	r := m.pending
	m.pending = reading.Reading{}
	m.ready = false
	return r, true
}

// Peek returns the pending reading without consuming it.
func (m *Mailbox) Peek() (reading.Reading, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending, m.ready
}

// Ready reports whether a reading is staged.
func (m *Mailbox) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Clear drops any pending reading.
func (m *Mailbox) Clear() {
	m.mu.Lock()
	m.pending = reading.Reading{}
	m.ready = false
	m.mu.Unlock()
}

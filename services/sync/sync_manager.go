package sync

import (
	stdsync "sync"
)

// Manager hands out one mutex per room id. Every mutating action on a room
// (registry membership changes and game load-mutate-save cycles) runs under
// that room's lock, so concurrent submissions for the same room serialize
// while different rooms proceed fully in parallel.
type Manager struct {
	mu    stdsync.Mutex
	locks map[string]*stdsync.Mutex
}

// NewManager creates a new instance of the room lock manager
func NewManager() *Manager {
	return &Manager{locks: make(map[string]*stdsync.Mutex)}
}

func (m *Manager) lockFor(roomID string) *stdsync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[roomID]
	if !ok {
		l = &stdsync.Mutex{}
		m.locks[roomID] = l
	}
	return l
}

// WithRoomLock runs fn while holding the room's mutex. Not reentrant; fn
// must not take another room's lock (no operation ever needs two rooms).
func (m *Manager) WithRoomLock(roomID string, fn func() error) error {
	l := m.lockFor(roomID)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Release drops the mutex of a room that no longer exists. Safe to call
// while other goroutines still hold references to the old mutex; they just
// finish on the detached lock.
func (m *Manager) Release(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, roomID)
}

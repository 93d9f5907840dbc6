package sync

import (
	base "sync"
)

// pointsPerStripe is the number of ring points for each stripe, enough for
// keys to spread evenly across stripes
const pointsPerStripe = 200

// StripedLock maps an unbounded key space, like market names, onto a fixed set
// of read-write locks. Keys on different stripes never contend, and the memory
// used doesn't grow with the number of keys.
type StripedLock struct {
	stripes []base.RWMutex
	ring    *ring
}

// NewStripedLock returns a StripedLock with a static number of stripes. Zero
// stripes is treated as one.
func NewStripedLock(stripes uint) *StripedLock {
	stripes = max(stripes, 1)
	return &StripedLock{
		stripes: make([]base.RWMutex, stripes),
		ring:    newRing(stripes, pointsPerStripe),
	}
}

// Get returns the lock guarding key
func (l *StripedLock) Get(key string) *base.RWMutex {
	return &l.stripes[l.ring.shard(key)]
}

// Lock write locks key until the returned func is called
func (l *StripedLock) Lock(key string) (unlock func()) {
	mu := l.Get(key)
	mu.Lock()
	return mu.Unlock
}

// RLock read locks key until the returned func is called
func (l *StripedLock) RLock(key string) (unlock func()) {
	mu := l.Get(key)
	mu.RLock()
	return mu.RUnlock
}

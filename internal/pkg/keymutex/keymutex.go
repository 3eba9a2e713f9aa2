// Package keymutex provides per-key mutual exclusion so that operations on
// the same machine serialize while operations on different machines run
// concurrently.
package keymutex

import (
	"sync"

	"github.com/google/uuid"
)

type KeyMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func New() *KeyMutex {
	return &KeyMutex{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock acquires the mutex for key and returns its unlock function.
// Mutexes are created lazily and kept for the process lifetime; the key
// space is the fixed machine pool, so the map never grows unbounded.
func (k *KeyMutex) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

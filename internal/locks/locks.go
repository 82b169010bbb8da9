// Package locks provides per-game mutual exclusion.
//
// The store has no multi-step transactions, so every load-validate-mutate-
// save sequence on a game document runs under that game's lock; without it
// two concurrent fires could both load the same shot mask and the second
// save would silently clobber the first.
package locks

import (
	"sync"

	"github.com/mcoot/broadside/internal/model"
)

// Table is a lazily populated lock table keyed by game id
type Table struct {
	mu    sync.Mutex
	locks map[model.GameID]*sync.Mutex
}

// NewTable creates an empty lock table
func NewTable() *Table {
	return &Table{
		locks: make(map[model.GameID]*sync.Mutex),
	}
}

// Lock acquires the lock for a game and returns its unlock function.
// Locks are never removed; an entry is a bare mutex and games are few.
func (t *Table) Lock(id model.GameID) func() {
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &sync.Mutex{}
		t.locks[id] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

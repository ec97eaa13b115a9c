package inventory

import (
	"sync"
)

// TitleMutex serializes critical sections per title. Availability decisions
// are check-then-act: the window between reading stock state and committing
// the loan or reservation must be exclusive per title, or two concurrent
// issuances can both observe a passing check for the last remaining copy.
//
// Locks are created on first use and released from the internal map once no
// goroutine holds or waits for them, so the map stays bounded by the number
// of titles under concurrent decision, not by catalogue size.
type TitleMutex struct {
	mu     sync.Mutex
	titles map[TitleIDInt]*titleLock
}

type titleLock struct {
	mu      sync.Mutex
	waiters int
}

// NewTitleMutex creates an empty TitleMutex.
func NewTitleMutex() *TitleMutex {
	return &TitleMutex{
		titles: make(map[TitleIDInt]*titleLock),
	}
}

// Lock acquires the exclusive critical section for the given title,
// blocking until any current holder releases it.
func (tm *TitleMutex) Lock(titleID TitleIDInt) {
	tm.mu.Lock()
	lock, exists := tm.titles[titleID]
	if !exists {
		lock = &titleLock{}
		tm.titles[titleID] = lock
	}
	lock.waiters++
	tm.mu.Unlock()

	lock.mu.Lock()
}

// Unlock releases the critical section for the given title.
func (tm *TitleMutex) Unlock(titleID TitleIDInt) {
	tm.mu.Lock()
	lock, exists := tm.titles[titleID]
	if !exists {
		tm.mu.Unlock()
		panic("inventory: unlock of unlocked title")
	}
	lock.waiters--
	if lock.waiters == 0 {
		delete(tm.titles, titleID)
	}
	tm.mu.Unlock()

	lock.mu.Unlock()
}

package match

import (
	"sync"

	"github.com/mcoot/gomoku-go/internal/model"
)

// matchLocks hands out one mutex per match id, dropping it once nobody holds or waits on it
type matchLocks struct {
	mu    sync.Mutex
	locks map[model.MatchID]*matchLock
}

type matchLock struct {
	mu   sync.Mutex
	refs int
}

func newMatchLocks() *matchLocks {
	return &matchLocks{locks: make(map[model.MatchID]*matchLock)}
}

// lock blocks until id is free and returns the matching unlock func
func (l *matchLocks) lock(id model.MatchID) func() {
	l.mu.Lock()
	ml, ok := l.locks[id]
	if !ok {
		ml = &matchLock{}
		l.locks[id] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.mu.Lock()
	return func() {
		ml.mu.Unlock()
		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *matchLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

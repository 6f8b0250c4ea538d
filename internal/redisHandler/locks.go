package redishandler

import "sync"

// pollLocks hands out one mutex per poll id. Entries are dropped once no
// goroutine holds or waits for them.
type pollLocks struct {
	mu    sync.Mutex
	locks map[string]*pollLock
}

type pollLock struct {
	sync.Mutex
	refs int
}

func newPollLocks() *pollLocks {
	return &pollLocks{locks: make(map[string]*pollLock)}
}

// lock blocks until the caller holds the poll's mutex and returns the
// function that releases it.
func (p *pollLocks) lock(pollID string) func() {
	p.mu.Lock()
	l, ok := p.locks[pollID]
	if !ok {
		l = &pollLock{}
		p.locks[pollID] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, pollID)
		}
		p.mu.Unlock()
	}
}

func (p *pollLocks) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}

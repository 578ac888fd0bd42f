package preview

import "sync"

// hashLocks serializes artifact generation per content hash so concurrent
// workers handed duplicate content never double-build or clobber one
// artifact.
type hashLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newHashLocks() *hashLocks {
	return &hashLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for a hash and returns its release func.
func (h *hashLocks) lock(sha string) func() {
	h.mu.Lock()
	l, ok := h.locks[sha]
	if !ok {
		l = &sync.Mutex{}
		h.locks[sha] = l
	}
	h.mu.Unlock()

	l.Lock()
	return l.Unlock
}

package service

import "sync"

// keyedMutex serializes operations per entity id. Allocation attempts against
// one cupo, and status transitions of one pedido, must not interleave: two
// concurrent requests could each pass a stale check and jointly violate an
// invariant. Locks are never removed; the id space is small (cupos per day,
// active pedidos) so the map stays bounded in practice.
type keyedMutex struct {
	locks sync.Map // key → *sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// LockPair acquires two keyed mutexes in a stable order so concurrent moves
// between the same pair of cupos cannot deadlock.
func (k *keyedMutex) LockPair(a, b string) func() {
	if a == b {
		return k.Lock(a)
	}
	if b < a {
		a, b = b, a
	}
	unlockA := k.Lock(a)
	unlockB := k.Lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}

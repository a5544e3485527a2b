package service

import "sync"

// keyedMutex serializes work per key without sharing a lock across keys.
// Start/finish calls racing on the same session id take the same mutex;
// distinct sessions never block each other. The zero value is ready to use.
type keyedMutex struct {
	mus sync.Map // map[string]*sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Forget drops the mutex for a key that can no longer be contended
// (terminal sessions), keeping the map from growing without bound. A late
// caller may mint a fresh mutex for the key; the store-level transition
// guards make that harmless.
func (k *keyedMutex) Forget(key string) {
	k.mus.Delete(key)
}

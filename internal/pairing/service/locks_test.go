package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	t.Parallel()

	var km keyedMutex
	const workers = 16

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("session")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}

func TestKeyedMutexDistinctKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	var km keyedMutex

	unlockA := km.Lock("a")
	defer unlockA()

	// Locking a different key while "a" is held must not deadlock.
	unlockB := km.Lock("b")
	unlockB()
}

func TestKeyedMutexForget(t *testing.T) {
	t.Parallel()

	var km keyedMutex

	unlock := km.Lock("done")
	unlock()
	km.Forget("done")

	// The key is usable again after being forgotten.
	unlock = km.Lock("done")
	unlock()
}

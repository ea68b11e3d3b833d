package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflightRegistry_SerializesPerKey(t *testing.T) {
	r := newInflightRegistry()

	assert.True(t, r.begin("client/11"))
	assert.False(t, r.begin("client/11"), "same key is busy")
	assert.True(t, r.begin("client/12"), "other keys are independent")

	r.end("client/11")
	assert.True(t, r.begin("client/11"), "key is free after end")
}

func TestInflightRegistry_ConcurrentBegin(t *testing.T) {
	r := newInflightRegistry()

	const attempts = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.begin("client/11") {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won, "exactly one concurrent submission wins the key")
}

func TestPendingDeletes_TokenLifecycle(t *testing.T) {
	p := newPendingDeletes()

	assert.False(t, p.confirm(11, "anything"), "no pending request")

	p.request(11, "tok-a")
	assert.False(t, p.confirm(11, "tok-b"))
	assert.True(t, p.confirm(11, "tok-a"))
	assert.False(t, p.confirm(11, "tok-a"), "confirmation is consumed")

	p.request(11, "tok-c")
	p.request(11, "tok-d")
	assert.False(t, p.confirm(11, "tok-c"), "a fresh request supersedes the old token")
	assert.True(t, p.confirm(11, "tok-d"))

	p.request(11, "tok-e")
	p.cancel(11)
	assert.False(t, p.confirm(11, "tok-e"))
}

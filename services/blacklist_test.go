package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlacklistRevokeAndCheck(t *testing.T) {
	b := NewTokenBlacklist()

	assert.False(t, b.IsRevoked("token-a"))
	b.Revoke("token-a")
	assert.True(t, b.IsRevoked("token-a"))
	assert.False(t, b.IsRevoked("token-b"))
}

func TestBlacklistRevokeIsIdempotent(t *testing.T) {
	b := NewTokenBlacklist()

	b.Revoke("token-a")
	b.Revoke("token-a")
	assert.True(t, b.IsRevoked("token-a"))
}

func TestBlacklistIgnoresEmptyToken(t *testing.T) {
	b := NewTokenBlacklist()

	b.Revoke("")
	assert.False(t, b.IsRevoked(""))
}

func TestBlacklistConcurrentAccess(t *testing.T) {
	b := NewTokenBlacklist()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		token := fmt.Sprintf("token-%d", i)
		go func() {
			defer wg.Done()
			b.Revoke(token)
		}()
		go func() {
			defer wg.Done()
			b.IsRevoked(token)
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.True(t, b.IsRevoked(fmt.Sprintf("token-%d", i)))
	}
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheAccessorsWorkWithoutInit(t *testing.T) {
	// 不调用 InitCache 直接访问，不应 panic
	Cache = nil

	_, ok := CacheGet("missing")
	assert.False(t, ok)

	CacheSet("k", "v", time.Minute)
	got, ok := CacheGet("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	CacheDelete("k")
	_, ok = CacheGet("k")
	assert.False(t, ok)
}

func TestLookupCacheExpiry(t *testing.T) {
	c := NewLookupCache[string](10, 10*time.Millisecond)
	c.Set("k", "v")

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

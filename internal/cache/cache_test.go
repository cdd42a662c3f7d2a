package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := New[string, int](time.Minute)

	t.Run("set and get", func(t *testing.T) {
		c.Set("a", 1, time.Now().Add(time.Minute))
		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c.Set("b", 2, time.Now().Add(-time.Second))
		_, ok := c.Get("b")
		assert.False(t, ok)
	})

	t.Run("set default uses the configured ttl", func(t *testing.T) {
		c.SetDefault("c", 3)
		v, ok := c.Get("c")
		assert.True(t, ok)
		assert.Equal(t, 3, v)
	})

	t.Run("delete", func(t *testing.T) {
		c.Set("d", 4, time.Now().Add(time.Minute))
		c.Delete("d")
		_, ok := c.Get("d")
		assert.False(t, ok)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := c.Get("nope")
		assert.False(t, ok)
	})
}

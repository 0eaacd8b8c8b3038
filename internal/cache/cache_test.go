// SPDX-License-Identifier: MIT

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSetGet(t *testing.T) {
	c := NewMemory[[]string](0)
	defer c.Stop()

	c.Set("stops", []string{"Автовокзал", "Больница"}, time.Minute)

	got, ok := c.Get("stops")
	require.True(t, ok)
	assert.Equal(t, []string{"Автовокзал", "Больница"}, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiration(t *testing.T) {
	c := NewMemory[int](0)
	defer c.Stop()

	c.Set("k", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDeleteAndClear(t *testing.T) {
	c := NewMemory[int](0)
	defer c.Stop()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Zero(t, c.Stats().CurrentSize)
}

func TestJanitorEvicts(t *testing.T) {
	c := NewMemory[int](5 * time.Millisecond)
	defer c.Stop()

	c.Set("k", 1, time.Millisecond)

	assert.Eventually(t, func() bool {
		return c.Stats().Evictions >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestStats(t *testing.T) {
	c := NewMemory[int](0)
	defer c.Stop()

	c.Set("k", 1, time.Minute)
	c.Get("k")
	c.Get("nope")

	s := c.Stats()
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, int64(1), s.Sets)
	assert.Equal(t, 1, s.CurrentSize)
}

func TestStopIdempotent(t *testing.T) {
	c := NewMemory[int](time.Millisecond)
	c.Stop()
	c.Stop()
}

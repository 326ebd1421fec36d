package model

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

func catRecord(id int64, name string) types.Record {
	rec := types.NewRecord()
	rec.Set(types.ColID, id)
	rec.Set(types.ColName, name)
	return rec
}

func TestCacheGetReturnsSameInstance(t *testing.T) {
	c := NewCache[Category]()

	a := c.Get(catRecord(1, "Mead"))
	b := c.Get(catRecord(1, "Mead"))
	require.Same(t, a, b)

	other := c.Get(catRecord(2, "Beer"))
	assert.NotSame(t, a, other)
}

func TestCacheGetRefreshesLiveInstance(t *testing.T) {
	c := NewCache[Category]()

	a := c.Get(catRecord(1, "Mead"))
	b := c.Get(catRecord(1, "Mead Renamed"))

	require.Same(t, a, b)
	assert.Equal(t, "Mead Renamed", a.Name())
}

func TestCacheZeroIDNeverCached(t *testing.T) {
	c := NewCache[Category]()

	a := c.Get(catRecord(0, "draft"))
	b := c.Get(catRecord(0, "draft"))
	assert.NotSame(t, a, b)

	_, ok := c.Lookup(0)
	assert.False(t, ok)
}

func TestCacheLookup(t *testing.T) {
	c := NewCache[Category]()
	keep := c.Get(catRecord(5, "Wine"))

	got, ok := c.Lookup(5)
	require.True(t, ok)
	assert.Same(t, keep, got)

	_, ok = c.Lookup(6)
	assert.False(t, ok)
}

func TestCachePutAndRemove(t *testing.T) {
	c := NewCache[Category]()

	e := &Category{}
	e.SetData(catRecord(9, "Cider"))
	c.Put(e)

	got, ok := c.Lookup(9)
	require.True(t, ok)
	assert.Same(t, e, got)

	c.Remove(9)
	_, ok = c.Lookup(9)
	assert.False(t, ok)
}

func TestCacheNotifyFiresChanged(t *testing.T) {
	c := NewCache[Category]()
	e := c.Get(catRecord(3, "Mead"))

	fired := 0
	e.OnChanged(func() { fired++ })

	c.Notify(3)
	assert.Equal(t, 1, fired)

	// No live instance, no panic.
	c.Notify(99)
}

func TestCacheReleasesCollectedEntities(t *testing.T) {
	c := NewCache[Category]()

	func() {
		e := c.Get(catRecord(42, "Transient"))
		_ = e
	}()

	// The only strong reference is gone; after collection the cache must
	// report a miss and hand out a fresh instance.
	for i := 0; i < 3; i++ {
		runtime.GC()
	}

	if _, ok := c.Lookup(42); ok {
		t.Skip("referent still live after GC; skipping non-deterministic check")
	}

	fresh := c.Get(catRecord(42, "Transient"))
	assert.Equal(t, int64(42), fresh.ID())
}

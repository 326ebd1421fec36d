package model

import (
	"sync"
	"weak"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Observable is the surface the cache needs from an entity: pointer types
// embedding Model satisfy it.
type Observable interface {
	ID() int64
	SetData(types.Record)
	Changed()
}

// Cache is a per-entity-type identity map from primary key to a weak
// reference to the single live instance for that row. Holding only weak
// references lets entities be collected once no caller retains them, while
// still guaranteeing that two independently loaded references to the same
// row are the same instance.
type Cache[T any, P interface {
	*T
	Observable
}] struct {
	mu   sync.Mutex
	live map[int64]weak.Pointer[T]
}

// NewCache returns an empty identity cache.
func NewCache[T any, P interface {
	*T
	Observable
}]() *Cache[T, P] {
	return &Cache[T, P]{live: make(map[int64]weak.Pointer[T])}
}

// Get resolves a record to its shared entity instance. Records with id 0
// (unsaved) always produce a fresh instance and are never cached. For a
// persisted id, an existing live instance is refreshed in place with rec and
// returned, so all holders observe the update; otherwise a new instance is
// constructed, registered, and returned.
func (c *Cache[T, P]) Get(rec types.Record) P {
	id := rec.ID()
	if id == 0 {
		e := P(new(T))
		e.SetData(rec)
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.live[id]; ok {
		if p := w.Value(); p != nil {
			e := P(p)
			e.SetData(rec)
			return e
		}
	}
	e := P(new(T))
	e.SetData(rec)
	c.live[id] = weak.Make((*T)(e))
	return e
}

// Lookup returns the live instance for id without constructing one. The
// second result is false when no entry exists or the referent has been
// collected.
func (c *Cache[T, P]) Lookup(id int64) (P, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.live[id]
	if !ok {
		return nil, false
	}
	p := w.Value()
	if p == nil {
		delete(c.live, id)
		return nil, false
	}
	return P(p), true
}

// Put registers (or replaces) the weak entry for the entity's id. Used right
// after a fresh insert assigns an id. Entities with id 0 are ignored.
func (c *Cache[T, P]) Put(e P) {
	id := e.ID()
	if id == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live[id] = weak.Make((*T)(e))
}

// Remove drops the entry for id, if any.
func (c *Cache[T, P]) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.live, id)
}

// Notify fires "changed" on the live instance for id, if one exists. Used
// when a different table's write affects data this entity denormalizes.
func (c *Cache[T, P]) Notify(id int64) {
	if e, ok := c.Lookup(id); ok {
		e.Changed()
	}
}

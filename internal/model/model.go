// Package model defines the observable entity wrappers around storage
// records and the weak-reference identity cache that guarantees at most one
// live instance per row id.
package model

import (
	"sync"
	"time"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Model wraps one Record and carries the two broadcast events every entity
// exposes: "changed" (fired after a mutation is committed or externally
// observed) and "deleted" (fired once, terminal). Delivery is synchronous on
// the calling goroutine; subscribers must not block.
//
// A zero Model is ready to use. The primary key 0 means "not yet persisted".
type Model struct {
	mu           sync.Mutex
	data         types.Record
	changed      map[int]func()
	deleted      map[int]func()
	nextSub      int
	deletedFired bool
}

// ID returns the primary key, 0 when the entity has not been persisted.
func (m *Model) ID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ID()
}

// Data returns a cloned snapshot of the backing record.
func (m *Model) Data() types.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return types.NewRecord()
	}
	return m.data.Clone()
}

// SetData overwrites the backing record with a clone of rec. It never fires
// "changed"; the caller decides when to notify.
func (m *Model) SetData(rec types.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = rec.Clone()
}

// OnChanged subscribes fn to the "changed" broadcast and returns an
// unsubscribe function.
func (m *Model) OnChanged(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.changed == nil {
		m.changed = make(map[int]func())
	}
	id := m.nextSub
	m.nextSub++
	m.changed[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.changed, id)
	}
}

// OnDeleted subscribes fn to the one-time "deleted" broadcast and returns an
// unsubscribe function. If the entity is already deleted, fn is called
// immediately.
func (m *Model) OnDeleted(fn func()) func() {
	m.mu.Lock()
	if m.deletedFired {
		m.mu.Unlock()
		fn()
		return func() {}
	}
	if m.deleted == nil {
		m.deleted = make(map[int]func())
	}
	id := m.nextSub
	m.nextSub++
	m.deleted[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.deleted, id)
	}
}

// Changed fires the "changed" broadcast to all current subscribers.
func (m *Model) Changed() {
	m.mu.Lock()
	subs := make([]func(), 0, len(m.changed))
	for _, fn := range m.changed {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Deleted fires the one-time "deleted" broadcast. Subsequent calls are
// no-ops; after Deleted the instance must not be reused for mutation.
func (m *Model) Deleted() {
	m.mu.Lock()
	if m.deletedFired {
		m.mu.Unlock()
		return
	}
	m.deletedFired = true
	subs := make([]func(), 0, len(m.deleted))
	for _, fn := range m.deleted {
		subs = append(subs, fn)
	}
	m.deleted = nil
	m.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// IsDeleted reports whether the "deleted" broadcast has fired.
func (m *Model) IsDeleted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletedFired
}

// Typed field access for the concrete entity types. Setters never fire
// "changed" themselves.

func (m *Model) getString(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.String(key, "")
}

func (m *Model) getInt64(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Int64(key, 0)
}

func (m *Model) getFloat64(key string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Float64(key, 0)
}

func (m *Model) getBool(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Bool(key, false)
}

func (m *Model) getTime(key string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Time(key, time.Time{})
}

func (m *Model) set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = types.NewRecord()
	}
	m.data.Set(key, value)
}

func (m *Model) setBool(key string, value bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = types.NewRecord()
	}
	m.data.SetBool(key, value)
}

func (m *Model) setTime(key string, value time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = types.NewRecord()
	}
	m.data.SetTime(key, value)
}

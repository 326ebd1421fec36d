package model

import "github.com/mesh-intelligence/cellar/pkg/types"

// Maker is a producer, deduplicated by the exact (name, location) pair.
// Name and location default to empty strings, never NULL.
type Maker struct {
	Model
}

func (m *Maker) UUID() string     { return m.getString(types.ColUUID) }
func (m *Maker) Name() string     { return m.getString(types.ColName) }
func (m *Maker) Location() string { return m.getString(types.ColLocation) }

package model

import "github.com/mesh-intelligence/cellar/pkg/types"

// Flavor is a category-level flavor definition with a contiguous position
// ordering inside its category.
type Flavor struct {
	Model
}

func (f *Flavor) CategoryID() int64 { return f.getInt64(types.ColCategoryID) }
func (f *Flavor) Name() string      { return f.getString(types.ColName) }
func (f *Flavor) Position() int64   { return f.getInt64(types.ColPosition) }

// EntryFlavor is one flavor rating (0..5) on an entry. The full set is
// replaced, not patched, on every entry save.
type EntryFlavor struct {
	Model
}

func (f *EntryFlavor) EntryID() int64  { return f.getInt64(types.ColEntryID) }
func (f *EntryFlavor) Name() string    { return f.getString(types.ColName) }
func (f *EntryFlavor) Value() int64    { return f.getInt64(types.ColValue) }
func (f *EntryFlavor) Position() int64 { return f.getInt64(types.ColPosition) }

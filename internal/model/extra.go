package model

import "github.com/mesh-intelligence/cellar/pkg/types"

// Extra is a category-level field definition. Preset extras are soft-deleted
// (IsDeleted) rather than removed.
type Extra struct {
	Model
}

func (x *Extra) UUID() string      { return x.getString(types.ColUUID) }
func (x *Extra) CategoryID() int64 { return x.getInt64(types.ColCategoryID) }
func (x *Extra) Name() string      { return x.getString(types.ColName) }
func (x *Extra) Position() int64   { return x.getInt64(types.ColPosition) }
func (x *Extra) IsPreset() bool    { return x.getBool(types.ColIsPreset) }
func (x *Extra) IsDeleted() bool   { return x.getBool(types.ColIsDeleted) }

func (x *Extra) SetName(name string) { x.set(types.ColName, name) }

// EntryExtra joins an Extra definition with a per-entry value. It is keyed by
// (entry id, extra id) and carries the definition's name, position, and
// flags when loaded through the entry extras view.
type EntryExtra struct {
	Model
}

func (x *EntryExtra) EntryID() int64  { return x.getInt64(types.ColEntryID) }
func (x *EntryExtra) ExtraID() int64  { return x.getInt64(types.ColExtraID) }
func (x *EntryExtra) UUID() string    { return x.getString(types.ColUUID) }
func (x *EntryExtra) Name() string    { return x.getString(types.ColName) }
func (x *EntryExtra) Position() int64 { return x.getInt64(types.ColPosition) }
func (x *EntryExtra) Value() string   { return x.getString(types.ColValue) }
func (x *EntryExtra) IsPreset() bool  { return x.getBool(types.ColIsPreset) }
func (x *EntryExtra) IsDeleted() bool { return x.getBool(types.ColIsDeleted) }

package model

import (
	"time"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Category is a journal category. EntryCount is a denormalized counter
// maintained by the repository alongside entry inserts and deletes.
type Category struct {
	Model
}

func (c *Category) UUID() string         { return c.getString(types.ColUUID) }
func (c *Category) Name() string         { return c.getString(types.ColName) }
func (c *Category) IsPreset() bool       { return c.getBool(types.ColIsPreset) }
func (c *Category) Updated() time.Time   { return c.getTime(types.ColUpdated) }
func (c *Category) IsPublished() bool    { return c.getBool(types.ColIsPublished) }
func (c *Category) IsSynced() bool       { return c.getBool(types.ColIsSynced) }
func (c *Category) EntryCount() int64    { return c.getInt64(types.ColEntryCount) }

func (c *Category) SetName(name string)     { c.set(types.ColName, name) }
func (c *Category) SetIsPublished(v bool)   { c.setBool(types.ColIsPublished, v) }

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/internal/sqlite"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Categories returns all categories ordered by name.
func (r *Repository) Categories(ctx context.Context) ([]*model.Category, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.CategoriesTable,
		OrderBy: types.ColName,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Category, 0, len(recs))
	for _, rec := range recs {
		out = append(out, r.categories.Get(rec))
	}
	return out, nil
}

// Category returns the category with the given id, or ErrNotFound.
func (r *Repository) Category(ctx context.Context, id int64) (*model.Category, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table: types.CategoriesTable,
		Where: types.ColID + " = ?",
		Args:  []any{id},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, types.ErrNotFound
	}
	return r.categories.Get(recs[0]), nil
}

// CategoryExtras returns the category's non-deleted extra definitions in
// position order.
func (r *Repository) CategoryExtras(ctx context.Context, categoryID int64) ([]*model.Extra, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.ExtrasTable,
		Where:   types.ColCategoryID + " = ? AND " + types.ColIsDeleted + " = 0",
		Args:    []any{categoryID},
		OrderBy: types.ColPosition,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Extra, 0, len(recs))
	for _, rec := range recs {
		x := &model.Extra{}
		x.SetData(rec)
		out = append(out, x)
	}
	return out, nil
}

// CategoryFlavors returns the category's flavor definitions in position
// order.
func (r *Repository) CategoryFlavors(ctx context.Context, categoryID int64) ([]*model.Flavor, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.FlavorsTable,
		Where:   types.ColCategoryID + " = ?",
		Args:    []any{categoryID},
		OrderBy: types.ColPosition,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Flavor, 0, len(recs))
	for _, rec := range recs {
		f := &model.Flavor{}
		f.SetData(rec)
		out = append(out, f)
	}
	return out, nil
}

// SaveCategory inserts or updates a category together with its child
// collections. A nil extras or flavors slice leaves that collection
// untouched; a non-nil slice is the new full ordering. The whole workflow
// runs in one transaction; change events publish after commit.
func (r *Repository) SaveCategory(ctx context.Context, c *model.Category, extras []*model.Extra, flavors []string) error {
	name := filterName(c.Name())
	if name == "" {
		return types.ErrInvalidName
	}

	isInsert := c.ID() == 0
	var reloaded types.Record
	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		now := time.Now()
		id := c.ID()

		if isInsert {
			unique, err := uniqueTitle(ctx, tx, types.CategoriesTable, types.ColName, name, 0)
			if err != nil {
				return err
			}
			rec := types.NewRecord()
			rec.Set(types.ColUUID, newUUID())
			rec.Set(types.ColName, unique)
			rec.SetBool(types.ColIsPreset, c.IsPreset())
			rec.SetTime(types.ColUpdated, now)
			rec.SetBool(types.ColIsPublished, c.IsPublished())
			rec.SetBool(types.ColIsSynced, false)
			rec.Set(types.ColEntryCount, int64(0))
			newID, err := tx.Insert(ctx, types.CategoriesTable, rec)
			if err != nil {
				return err
			}
			if newID == sqlite.InsertFailed {
				return fmt.Errorf("inserting category: no row created")
			}
			id = newID
		} else {
			rec := types.NewRecord()
			if !c.IsPreset() {
				rec.Set(types.ColName, name)
			}
			rec.SetBool(types.ColIsPublished, c.IsPublished())
			rec.SetTime(types.ColUpdated, now)
			rec.SetBool(types.ColIsSynced, false)
			n, err := tx.Update(ctx, types.CategoriesTable, rec, types.ColID+" = ?", id)
			if err != nil {
				return err
			}
			if n == 0 {
				return types.ErrNotFound
			}
		}

		if extras != nil {
			if err := saveCategoryExtras(ctx, tx, id, extras); err != nil {
				return err
			}
		}
		if flavors != nil {
			if err := replaceCategoryFlavors(ctx, tx, id, flavors); err != nil {
				return err
			}
		}

		recs, err := tx.Select(ctx, sqlite.Query{
			Table: types.CategoriesTable,
			Where: types.ColID + " = ?",
			Args:  []any{id},
			Limit: 1,
		})
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return types.ErrNotFound
		}
		reloaded = recs[0]
		return nil
	})
	if err != nil {
		return err
	}

	c.SetData(reloaded)
	if isInsert {
		r.categories.Put(c)
		r.publish(ActionInsert, c)
	} else {
		r.publish(ActionUpdate, c)
	}
	c.Changed()
	r.log.Info(ctx, "category saved", "id", c.ID(), "name", c.Name(), "insert", isInsert)
	return nil
}

// saveCategoryExtras writes the submitted extra definitions as the new full
// ordering: positions are assigned contiguously from the submitted order,
// omitted preset rows are soft-deleted, and omitted non-preset rows are
// removed (entry values follow by cascade).
func saveCategoryExtras(ctx context.Context, tx *sqlite.Database, categoryID int64, extras []*model.Extra) error {
	existing, err := tx.Select(ctx, sqlite.Query{
		Table: types.ExtrasTable,
		Where: types.ColCategoryID + " = ?",
		Args:  []any{categoryID},
	})
	if err != nil {
		return err
	}

	submitted := make(map[int64]bool, len(extras))
	pos := int64(0)
	for _, x := range extras {
		name := filterName(x.Name())
		if name == "" && !x.IsPreset() {
			return types.ErrInvalidName
		}

		if id := x.ID(); id != 0 {
			rec := types.NewRecord()
			if !x.IsPreset() {
				rec.Set(types.ColName, name)
			}
			rec.Set(types.ColPosition, pos)
			rec.SetBool(types.ColIsDeleted, false)
			if _, err := tx.Update(ctx, types.ExtrasTable, rec, types.ColID+" = ?", id); err != nil {
				return err
			}
			submitted[id] = true
		} else {
			rec := types.NewRecord()
			rec.Set(types.ColUUID, newUUID())
			rec.Set(types.ColCategoryID, categoryID)
			rec.Set(types.ColName, name)
			rec.Set(types.ColPosition, pos)
			rec.SetBool(types.ColIsPreset, false)
			rec.SetBool(types.ColIsDeleted, false)
			id, err := tx.Insert(ctx, types.ExtrasTable, rec)
			if err != nil {
				return err
			}
			if id == sqlite.InsertFailed {
				return fmt.Errorf("inserting extra %s: no row created", name)
			}
			rec.Set(types.ColID, id)
			x.SetData(rec)
			submitted[id] = true
		}
		pos++
	}

	for _, ex := range existing {
		id := ex.ID()
		if submitted[id] {
			continue
		}
		if ex.Bool(types.ColIsPreset, false) {
			rec := types.NewRecord()
			rec.SetBool(types.ColIsDeleted, true)
			if _, err := tx.Update(ctx, types.ExtrasTable, rec, types.ColID+" = ?", id); err != nil {
				return err
			}
		} else {
			if _, err := tx.Delete(ctx, types.ExtrasTable, types.ColID+" = ?", id); err != nil {
				return err
			}
		}
	}
	return nil
}

// replaceCategoryFlavors deletes all flavor rows for the category and
// re-inserts the submitted list with fresh contiguous positions.
func replaceCategoryFlavors(ctx context.Context, tx *sqlite.Database, categoryID int64, names []string) error {
	if _, err := tx.Delete(ctx, types.FlavorsTable, types.ColCategoryID+" = ?", categoryID); err != nil {
		return err
	}
	pos := int64(0)
	for _, name := range names {
		name = filterName(name)
		if name == "" {
			continue
		}
		rec := types.NewRecord()
		rec.Set(types.ColCategoryID, categoryID)
		rec.Set(types.ColName, name)
		rec.Set(types.ColPosition, pos)
		if _, err := tx.Insert(ctx, types.FlavorsTable, rec); err != nil {
			return err
		}
		pos++
	}
	return nil
}

// DeleteCategory removes a non-preset category. Entry rows referencing it
// are removed by the storage-level cascade; their ids are captured first so
// that, after the commit, the category's "deleted" fires followed by a
// synthetic "deleted" and a thumbnail invalidation for every removed entry.
func (r *Repository) DeleteCategory(ctx context.Context, c *model.Category) error {
	id := c.ID()
	if id == 0 {
		return types.ErrNotPersisted
	}
	if c.IsPreset() {
		return types.ErrPreset
	}

	var entryIDs []int64
	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		recs, err := tx.Select(ctx, sqlite.Query{
			Table:   types.EntriesTable,
			Columns: []string{types.ColID},
			Where:   types.ColCategoryID + " = ?",
			Args:    []any{id},
		})
		if err != nil {
			return err
		}
		for _, rec := range recs {
			entryIDs = append(entryIDs, rec.ID())
		}

		n, err := tx.Delete(ctx, types.CategoriesTable, types.ColID+" = ?", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.categories.Remove(id)
	c.Deleted()
	r.publish(ActionDelete, c)

	for _, entryID := range entryIDs {
		if e, ok := r.entries.Lookup(entryID); ok {
			e.Deleted()
		}
		r.entries.Remove(entryID)
		if r.thumbs != nil {
			r.thumbs(entryID)
		}
	}
	r.log.Info(ctx, "category deleted", "id", id, "entries", len(entryIDs))
	return nil
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/internal/sqlite"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// ExtraValue is one submitted extra field value on an entry save.
type ExtraValue struct {
	Name     string
	Value    string
	IsPreset bool
}

// FlavorValue is one submitted flavor rating on an entry save. Values are
// clamped to 0..5.
type FlavorValue struct {
	Name  string
	Value int64
}

// SaveEntryInput carries the collaborating values for one entry save.
type SaveEntryInput struct {
	// CategoryName resolves the category when the entry carries no category
	// id: an exact-name match is reused, otherwise a category is created.
	CategoryName string

	// CategoryFlavors is the default flavor set for an auto-created
	// category. When nil, the schema loader's preset list for the name is
	// used, if any.
	CategoryFlavors []string

	// Maker and MakerLocation identify the producer; the pair is
	// deduplicated against existing maker rows. Empty strings are stored as
	// empty, never NULL.
	Maker         string
	MakerLocation string

	// Extras and Flavors are the submitted child collections. A nil slice
	// leaves that collection untouched.
	Extras  []ExtraValue
	Flavors []FlavorValue
}

// Entries returns entries from the read-side view, newest first. A zero
// categoryID returns all entries.
func (r *Repository) Entries(ctx context.Context, categoryID int64) ([]*model.Entry, error) {
	q := sqlite.Query{
		Table:   types.EntriesView,
		OrderBy: types.ColDate + " DESC, " + types.ColID + " DESC",
	}
	if categoryID > 0 {
		q.Where = types.ColCategoryID + " = ?"
		q.Args = []any{categoryID}
	}
	recs, err := r.db.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, r.entries.Get(rec))
	}
	return out, nil
}

// Entry returns the entry with the given id from the read-side view, or
// ErrNotFound.
func (r *Repository) Entry(ctx context.Context, id int64) (*model.Entry, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table: types.EntriesView,
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
	return r.entries.Get(recs[0]), nil
}

// EntryExtras returns the entry's extra values joined with their live
// definitions, in definition position order.
func (r *Repository) EntryExtras(ctx context.Context, entryID int64) ([]*model.EntryExtra, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.EntryExtrasView,
		Where:   types.ColEntryID + " = ? AND " + types.ColIsDeleted + " = 0",
		Args:    []any{entryID},
		OrderBy: types.ColPosition,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.EntryExtra, 0, len(recs))
	for _, rec := range recs {
		x := &model.EntryExtra{}
		x.SetData(rec)
		out = append(out, x)
	}
	return out, nil
}

// EntryFlavors returns the entry's flavor ratings in position order.
func (r *Repository) EntryFlavors(ctx context.Context, entryID int64) ([]*model.EntryFlavor, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.EntryFlavorsTable,
		Where:   types.ColEntryID + " = ?",
		Args:    []any{entryID},
		OrderBy: types.ColPosition,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.EntryFlavor, 0, len(recs))
	for _, rec := range recs {
		f := &model.EntryFlavor{}
		f.SetData(rec)
		out = append(out, f)
	}
	return out, nil
}

// SaveEntry inserts or updates an entry together with its maker reference
// and child collections. On insert the title is made unique, a uuid is
// assigned, and the owning category's entry count is incremented. The whole
// workflow runs in one transaction; change events publish after commit.
func (r *Repository) SaveEntry(ctx context.Context, e *model.Entry, in SaveEntryInput) error {
	title := filterName(e.Title())
	if title == "" {
		return types.ErrInvalidTitle
	}

	isInsert := e.ID() == 0
	var (
		reloaded      types.Record
		categoryID    int64
		createdCatRec types.Record
	)
	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		now := time.Now()

		catID, createdRec, err := r.resolveCategory(ctx, tx, e, in)
		if err != nil {
			return err
		}
		categoryID = catID
		createdCatRec = createdRec

		makerID, err := resolveMaker(ctx, tx, in.Maker, in.MakerLocation)
		if err != nil {
			return err
		}

		catUUID, err := categoryUUID(ctx, tx, catID)
		if err != nil {
			return err
		}

		values := types.NewRecord()
		values.Set(types.ColTitle, title)
		values.Set(types.ColCategoryID, catID)
		values.Set(types.ColCategoryUUID, catUUID)
		values.Set(types.ColMakerID, makerID)
		values.Set(types.ColPrice, e.Price())
		values.Set(types.ColLocation, e.Location())
		values.SetTime(types.ColDate, e.Date())
		values.Set(types.ColRating, e.Rating())
		values.Set(types.ColNotes, e.Notes())
		values.SetTime(types.ColUpdated, now)
		values.SetBool(types.ColIsPublished, e.IsPublished())
		values.SetBool(types.ColIsSynced, false)

		id := e.ID()
		if isInsert {
			unique, err := uniqueTitle(ctx, tx, types.EntriesTable, types.ColTitle, title, 0)
			if err != nil {
				return err
			}
			values.Set(types.ColTitle, unique)
			values.Set(types.ColUUID, newUUID())
			newID, err := tx.Insert(ctx, types.EntriesTable, values)
			if err != nil {
				return err
			}
			if newID == sqlite.InsertFailed {
				return fmt.Errorf("inserting entry: no row created")
			}
			id = newID

			if err := tx.Exec(ctx,
				"UPDATE categories SET entry_count = entry_count + 1 WHERE id = ?", catID); err != nil {
				return err
			}
		} else {
			n, err := tx.Update(ctx, types.EntriesTable, values, types.ColID+" = ?", id)
			if err != nil {
				return err
			}
			if n == 0 {
				return types.ErrNotFound
			}
		}

		if in.Extras != nil {
			if err := resolveEntryExtras(ctx, tx, id, catID, in.Extras); err != nil {
				return err
			}
		}
		if in.Flavors != nil {
			if err := replaceEntryFlavors(ctx, tx, id, in.Flavors); err != nil {
				return err
			}
		}

		recs, err := tx.Select(ctx, sqlite.Query{
			Table: types.EntriesView,
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

	e.SetData(reloaded)
	if createdCatRec != nil {
		cat := r.categories.Get(createdCatRec)
		r.publish(ActionInsert, cat)
	}
	if isInsert {
		r.entries.Put(e)
		r.publish(ActionInsert, e)
	} else {
		r.publish(ActionUpdate, e)
	}
	e.Changed()
	if isInsert {
		r.refreshCategory(ctx, categoryID)
	}
	r.log.Info(ctx, "entry saved", "id", e.ID(), "title", e.Title(), "insert", isInsert)
	return nil
}

// resolveCategory determines the owning category for a save: a carried
// category id wins, then an exact-name match, then a freshly created
// category seeded with the supplied (or preset) default flavor names. The
// created category's record is returned so the caller can publish it after
// commit.
func (r *Repository) resolveCategory(ctx context.Context, tx *sqlite.Database, e *model.Entry, in SaveEntryInput) (int64, types.Record, error) {
	if id := e.CategoryID(); id != 0 {
		return id, nil, nil
	}

	name := filterName(in.CategoryName)
	if name == "" {
		return 0, nil, types.ErrInvalidName
	}

	recs, err := tx.Select(ctx, sqlite.Query{
		Table: types.CategoriesTable,
		Where: types.ColName + " = ?",
		Args:  []any{name},
		Limit: 1,
	})
	if err != nil {
		return 0, nil, err
	}
	if len(recs) > 0 {
		return recs[0].ID(), nil, nil
	}

	rec := types.NewRecord()
	rec.Set(types.ColUUID, newUUID())
	rec.Set(types.ColName, name)
	rec.SetBool(types.ColIsPreset, false)
	rec.SetTime(types.ColUpdated, time.Now())
	rec.SetBool(types.ColIsPublished, false)
	rec.SetBool(types.ColIsSynced, false)
	rec.Set(types.ColEntryCount, int64(0))
	id, err := tx.Insert(ctx, types.CategoriesTable, rec)
	if err != nil {
		return 0, nil, err
	}
	if id == sqlite.InsertFailed {
		return 0, nil, fmt.Errorf("creating category %s: no row created", name)
	}
	rec.Set(types.ColID, id)

	flavors := in.CategoryFlavors
	if flavors == nil && r.flavorNames != nil {
		flavors = r.flavorNames(name)
	}
	if len(flavors) > 0 {
		if err := replaceCategoryFlavors(ctx, tx, id, flavors); err != nil {
			return 0, nil, err
		}
	}
	return id, rec, nil
}

// categoryUUID reads the uuid column for a category row.
func categoryUUID(ctx context.Context, tx *sqlite.Database, id int64) (string, error) {
	recs, err := tx.Select(ctx, sqlite.Query{
		Table:   types.CategoriesTable,
		Columns: []string{types.ColUUID},
		Where:   types.ColID + " = ?",
		Args:    []any{id},
		Limit:   1,
	})
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", types.ErrNotFound
	}
	return recs[0].String(types.ColUUID, ""), nil
}

// resolveEntryExtras writes the submitted extra values: blank non-preset
// values delete any existing association row, other values resolve (or
// create, at max position + 1) the category-level definition and upsert the
// entry-to-extra value row.
func resolveEntryExtras(ctx context.Context, tx *sqlite.Database, entryID, categoryID int64, values []ExtraValue) error {
	for _, v := range values {
		name := filterName(v.Name)
		value := strings.TrimSpace(v.Value)

		if value == "" && !v.IsPreset {
			if name == "" {
				continue
			}
			def, err := findExtra(ctx, tx, categoryID, name)
			if err != nil {
				return err
			}
			if def != nil {
				if _, err := tx.Delete(ctx, types.EntryExtrasTable,
					types.ColEntryID+" = ? AND "+types.ColExtraID+" = ?",
					entryID, def.ID()); err != nil {
					return err
				}
			}
			continue
		}

		if name == "" {
			return types.ErrInvalidName
		}

		def, err := findExtra(ctx, tx, categoryID, name)
		if err != nil {
			return err
		}
		var extraID int64
		if def != nil {
			extraID = def.ID()
		} else {
			pos, err := maxExtraPosition(ctx, tx, categoryID)
			if err != nil {
				return err
			}
			rec := types.NewRecord()
			rec.Set(types.ColUUID, newUUID())
			rec.Set(types.ColCategoryID, categoryID)
			rec.Set(types.ColName, name)
			rec.Set(types.ColPosition, pos+1)
			rec.SetBool(types.ColIsPreset, false)
			rec.SetBool(types.ColIsDeleted, false)
			extraID, err = tx.Insert(ctx, types.ExtrasTable, rec)
			if err != nil {
				return err
			}
			if extraID == sqlite.InsertFailed {
				return fmt.Errorf("creating extra %s: no row created", name)
			}
		}

		// Upsert keeps the association's uuid: it is assigned once on the
		// first insert and never reassigned.
		if err := tx.Exec(ctx,
			`INSERT INTO entry_extras (entry_id, extra_id, uuid, value)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(entry_id, extra_id) DO UPDATE SET value = excluded.value`,
			entryID, extraID, newUUID(), value); err != nil {
			return err
		}
	}
	return nil
}

// findExtra resolves a category-level extra definition by exact name.
// Returns nil when absent.
func findExtra(ctx context.Context, tx *sqlite.Database, categoryID int64, name string) (types.Record, error) {
	recs, err := tx.Select(ctx, sqlite.Query{
		Table: types.ExtrasTable,
		Where: types.ColCategoryID + " = ? AND " + types.ColName + " = ?",
		Args:  []any{categoryID, name},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// maxExtraPosition returns the current maximum extra position for the
// category, -1 when the category has no extras.
func maxExtraPosition(ctx context.Context, tx *sqlite.Database, categoryID int64) (int64, error) {
	recs, err := tx.Select(ctx, sqlite.Query{
		Table:   types.ExtrasTable,
		Columns: []string{"COALESCE(MAX(position), -1) AS p"},
		Where:   types.ColCategoryID + " = ?",
		Args:    []any{categoryID},
	})
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return -1, nil
	}
	return recs[0].Int64("p", -1), nil
}

// replaceEntryFlavors deletes all flavor rows for the entry and re-inserts
// the submitted list with fresh contiguous positions. Ratings are clamped
// to 0..5.
func replaceEntryFlavors(ctx context.Context, tx *sqlite.Database, entryID int64, flavors []FlavorValue) error {
	if _, err := tx.Delete(ctx, types.EntryFlavorsTable, types.ColEntryID+" = ?", entryID); err != nil {
		return err
	}
	pos := int64(0)
	for _, f := range flavors {
		name := filterName(f.Name)
		if name == "" {
			continue
		}
		value := f.Value
		if value < 0 {
			value = 0
		}
		if value > 5 {
			value = 5
		}
		rec := types.NewRecord()
		rec.Set(types.ColEntryID, entryID)
		rec.Set(types.ColName, name)
		rec.Set(types.ColValue, value)
		rec.Set(types.ColPosition, pos)
		if _, err := tx.Insert(ctx, types.EntryFlavorsTable, rec); err != nil {
			return err
		}
		pos++
	}
	return nil
}

// DeleteEntry removes an entry; child rows follow by cascade. The owning
// category's entry count is decremented in the same transaction and its
// live instance, if any, refreshed after commit.
func (r *Repository) DeleteEntry(ctx context.Context, e *model.Entry) error {
	id := e.ID()
	if id == 0 {
		return types.ErrNotPersisted
	}
	categoryID := e.CategoryID()

	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		n, err := tx.Delete(ctx, types.EntriesTable, types.ColID+" = ?", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return tx.Exec(ctx,
			"UPDATE categories SET entry_count = entry_count - 1 WHERE id = ? AND entry_count > 0",
			categoryID)
	})
	if err != nil {
		return err
	}

	r.entries.Remove(id)
	e.Deleted()
	r.publish(ActionDelete, e)
	if r.thumbs != nil {
		r.thumbs(id)
	}
	r.refreshCategory(ctx, categoryID)
	r.log.Info(ctx, "entry deleted", "id", id, "category", categoryID)
	return nil
}

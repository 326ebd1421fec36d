package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/internal/sqlite"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Photos returns the entry's photos in position order. Position 0 is the
// poster photo.
func (r *Repository) Photos(ctx context.Context, entryID int64) ([]*model.Photo, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.PhotosTable,
		Where:   types.ColEntryID + " = ?",
		Args:    []any{entryID},
		OrderBy: types.ColPosition,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Photo, 0, len(recs))
	for _, rec := range recs {
		out = append(out, r.photos.Get(rec))
	}
	return out, nil
}

// SavePhoto inserts or updates a photo. New photos append at the end of the
// entry's photo list. The owning entry's live instance, if any, is notified
// so its views can pick up a changed poster.
func (r *Repository) SavePhoto(ctx context.Context, p *model.Photo) error {
	entryID := p.EntryID()
	if entryID == 0 {
		return types.ErrNotPersisted
	}

	isInsert := p.ID() == 0
	var reloaded types.Record
	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		values := types.NewRecord()
		values.Set(types.ColEntryID, entryID)
		values.Set(types.ColHash, p.Hash())
		values.Set(types.ColPath, p.Path())
		values.Set(types.ColDriveID, p.DriveID())
		values.SetTime(types.ColUpdated, time.Now())

		id := p.ID()
		if isInsert {
			pos, err := photoCount(ctx, tx, entryID)
			if err != nil {
				return err
			}
			values.Set(types.ColPosition, pos)
			values.Set(types.ColUUID, newUUID())
			newID, err := tx.Insert(ctx, types.PhotosTable, values)
			if err != nil {
				return err
			}
			if newID == sqlite.InsertFailed {
				return fmt.Errorf("inserting photo: no row created")
			}
			id = newID
		} else {
			values.Set(types.ColPosition, p.Position())
			n, err := tx.Update(ctx, types.PhotosTable, values, types.ColID+" = ?", id)
			if err != nil {
				return err
			}
			if n == 0 {
				return types.ErrNotFound
			}
		}

		recs, err := tx.Select(ctx, sqlite.Query{
			Table: types.PhotosTable,
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

	p.SetData(reloaded)
	if isInsert {
		r.photos.Put(p)
		r.publish(ActionInsert, p)
	} else {
		r.publish(ActionUpdate, p)
	}
	p.Changed()
	r.entries.Notify(entryID)
	r.log.Info(ctx, "photo saved", "id", p.ID(), "entry", entryID, "insert", isInsert)
	return nil
}

// DeletePhoto removes a photo and renumbers the entry's remaining photos to
// contiguous positions starting at zero.
func (r *Repository) DeletePhoto(ctx context.Context, p *model.Photo) error {
	id := p.ID()
	if id == 0 {
		return types.ErrNotPersisted
	}
	entryID := p.EntryID()

	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		n, err := tx.Delete(ctx, types.PhotosTable, types.ColID+" = ?", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return renumberPhotos(ctx, tx, entryID)
	})
	if err != nil {
		return err
	}

	r.photos.Remove(id)
	p.Deleted()
	r.publish(ActionDelete, p)
	r.entries.Notify(entryID)
	r.log.Info(ctx, "photo deleted", "id", id, "entry", entryID)
	return nil
}

// photoCount returns the number of photos the entry currently has.
func photoCount(ctx context.Context, tx *sqlite.Database, entryID int64) (int64, error) {
	recs, err := tx.Select(ctx, sqlite.Query{
		Table:   types.PhotosTable,
		Columns: []string{"COUNT(*) AS n"},
		Where:   types.ColEntryID + " = ?",
		Args:    []any{entryID},
	})
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}
	return recs[0].Int64("n", 0), nil
}

// renumberPhotos rewrites the entry's photo positions to 0..n-1 in the
// current position order.
func renumberPhotos(ctx context.Context, tx *sqlite.Database, entryID int64) error {
	recs, err := tx.Select(ctx, sqlite.Query{
		Table:   types.PhotosTable,
		Columns: []string{types.ColID},
		Where:   types.ColEntryID + " = ?",
		Args:    []any{entryID},
		OrderBy: types.ColPosition,
	})
	if err != nil {
		return err
	}
	for i, rec := range recs {
		values := types.NewRecord()
		values.Set(types.ColPosition, int64(i))
		if _, err := tx.Update(ctx, types.PhotosTable, values, types.ColID+" = ?", rec.ID()); err != nil {
			return err
		}
	}
	return nil
}

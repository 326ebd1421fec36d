package repository

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/internal/sqlite"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Locations returns all saved locations ordered by name.
func (r *Repository) Locations(ctx context.Context) ([]*model.Location, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.LocationsTable,
		OrderBy: types.ColName,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Location, 0, len(recs))
	for _, rec := range recs {
		out = append(out, r.locations.Get(rec))
	}
	return out, nil
}

// SaveLocation inserts or updates a saved location. The name is filtered
// and must be non-empty.
func (r *Repository) SaveLocation(ctx context.Context, l *model.Location) error {
	name := filterName(l.Name())
	if name == "" {
		return types.ErrInvalidName
	}

	isInsert := l.ID() == 0
	var reloaded types.Record
	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		values := types.NewRecord()
		values.Set(types.ColName, name)
		values.Set(types.ColLatitude, l.Latitude())
		values.Set(types.ColLongitude, l.Longitude())

		id := l.ID()
		if isInsert {
			values.Set(types.ColUUID, newUUID())
			newID, err := tx.Insert(ctx, types.LocationsTable, values)
			if err != nil {
				return err
			}
			if newID == sqlite.InsertFailed {
				return fmt.Errorf("inserting location: no row created")
			}
			id = newID
		} else {
			n, err := tx.Update(ctx, types.LocationsTable, values, types.ColID+" = ?", id)
			if err != nil {
				return err
			}
			if n == 0 {
				return types.ErrNotFound
			}
		}

		recs, err := tx.Select(ctx, sqlite.Query{
			Table: types.LocationsTable,
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

	l.SetData(reloaded)
	if isInsert {
		r.locations.Put(l)
		r.publish(ActionInsert, l)
	} else {
		r.publish(ActionUpdate, l)
	}
	l.Changed()
	return nil
}

// DeleteLocation removes a saved location.
func (r *Repository) DeleteLocation(ctx context.Context, l *model.Location) error {
	id := l.ID()
	if id == 0 {
		return types.ErrNotPersisted
	}
	err := r.db.InTx(ctx, func(tx *sqlite.Database) error {
		n, err := tx.Delete(ctx, types.LocationsTable, types.ColID+" = ?", id)
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
	r.locations.Remove(id)
	l.Deleted()
	r.publish(ActionDelete, l)
	return nil
}

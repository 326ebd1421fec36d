package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/internal/sqlite"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Makers returns all makers ordered by name then location.
func (r *Repository) Makers(ctx context.Context) ([]*model.Maker, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   types.MakersTable,
		OrderBy: types.ColName + ", " + types.ColLocation,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Maker, 0, len(recs))
	for _, rec := range recs {
		out = append(out, r.makers.Get(rec))
	}
	return out, nil
}

// Maker returns the maker with the given id, or ErrNotFound.
func (r *Repository) Maker(ctx context.Context, id int64) (*model.Maker, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table: types.MakersTable,
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
	return r.makers.Get(recs[0]), nil
}

// resolveMaker finds or creates the maker row for a (name, location) pair.
// Both values are trimmed and stored as empty strings rather than NULL, so
// the unique pair index also deduplicates the blank maker.
func resolveMaker(ctx context.Context, tx *sqlite.Database, name, location string) (int64, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)

	recs, err := tx.Select(ctx, sqlite.Query{
		Table: types.MakersTable,
		Where: types.ColName + " = ? AND " + types.ColLocation + " = ?",
		Args:  []any{name, location},
		Limit: 1,
	})
	if err != nil {
		return 0, err
	}
	if len(recs) > 0 {
		return recs[0].ID(), nil
	}

	rec := types.NewRecord()
	rec.Set(types.ColUUID, newUUID())
	rec.Set(types.ColName, name)
	rec.Set(types.ColLocation, location)
	id, err := tx.Insert(ctx, types.MakersTable, rec)
	if err != nil {
		return 0, err
	}
	if id == sqlite.InsertFailed {
		return 0, fmt.Errorf("creating maker %q: no row created", name)
	}
	return id, nil
}

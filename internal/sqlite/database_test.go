package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// openTestDB opens a database in an isolated temp directory with the full
// schema loaded.
func openTestDB(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, types.Config{DataDir: t.TempDir()}, NewSchemaLoader())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	v, err := db.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)

	for _, table := range types.StandardTableNames {
		_, err := db.Select(ctx, Query{Table: table, Limit: 1})
		assert.NoError(t, err, "table %s", table)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := Open(ctx, types.Config{DataDir: dir}, NewSchemaLoader())
	require.NoError(t, err)
	_, err = db.Insert(ctx, types.LocationsTable, types.Record{
		types.ColUUID: "u1", types.ColName: "Cellar", types.ColLatitude: 1.0, types.ColLongitude: 2.0,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an existing file must neither recreate the schema nor
	// reseed anything.
	db, err = Open(ctx, types.Config{DataDir: dir}, NewSchemaLoader())
	require.NoError(t, err)
	defer db.Close()

	recs, err := db.Select(ctx, Query{Table: types.LocationsTable})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Cellar", recs[0].String(types.ColName, ""))
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := Open(ctx, types.Config{DataDir: dir}, NewSchemaLoader())
	require.NoError(t, err)
	require.NoError(t, db.SetVersion(ctx, SchemaVersion+1))
	require.NoError(t, db.Close())

	_, err = Open(ctx, types.Config{DataDir: dir}, NewSchemaLoader())
	assert.ErrorIs(t, err, types.ErrInvalidVersion)
}

func TestInsertSelectUpdateDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	rec := types.NewRecord()
	rec.Set(types.ColUUID, "loc-1")
	rec.Set(types.ColName, "Garage")
	rec.Set(types.ColLatitude, 48.1)
	rec.Set(types.ColLongitude, 11.5)
	id, err := db.Insert(ctx, types.LocationsTable, rec)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	t.Run("select by id", func(t *testing.T) {
		recs, err := db.Select(ctx, Query{
			Table: types.LocationsTable,
			Where: types.ColID + " = ?",
			Args:  []any{id},
		})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Garage", recs[0].String(types.ColName, ""))
		assert.Equal(t, id, recs[0].ID())
		assert.InDelta(t, 48.1, recs[0].Float64(types.ColLatitude, 0), 1e-9)
	})

	t.Run("select with column subset", func(t *testing.T) {
		recs, err := db.Select(ctx, Query{
			Table:   types.LocationsTable,
			Columns: []string{types.ColName},
		})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.False(t, recs[0].Has(types.ColLatitude))
	})

	t.Run("update", func(t *testing.T) {
		values := types.NewRecord()
		values.Set(types.ColName, "Basement")
		n, err := db.Update(ctx, types.LocationsTable, values, types.ColID+" = ?", id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		recs, err := db.Select(ctx, Query{Table: types.LocationsTable, Where: types.ColID + " = ?", Args: []any{id}})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Basement", recs[0].String(types.ColName, ""))
	})

	t.Run("update missing row", func(t *testing.T) {
		values := types.NewRecord()
		values.Set(types.ColName, "X")
		n, err := db.Update(ctx, types.LocationsTable, values, types.ColID+" = ?", int64(99999))
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("delete", func(t *testing.T) {
		n, err := db.Delete(ctx, types.LocationsTable, types.ColID+" = ?", id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		recs, err := db.Select(ctx, Query{Table: types.LocationsTable})
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestSelectOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for _, name := range []string{"b", "a", "c"} {
		rec := types.NewRecord()
		rec.Set(types.ColUUID, "loc-"+name)
		rec.Set(types.ColName, name)
		rec.Set(types.ColLatitude, 0.0)
		rec.Set(types.ColLongitude, 0.0)
		_, err := db.Insert(ctx, types.LocationsTable, rec)
		require.NoError(t, err)
	}

	recs, err := db.Select(ctx, Query{
		Table:   types.LocationsTable,
		OrderBy: types.ColName,
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].String(types.ColName, ""))
	assert.Equal(t, "b", recs[1].String(types.ColName, ""))
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	sentinel := errors.New("boom")
	err := db.InTx(ctx, func(tx *Database) error {
		rec := types.NewRecord()
		rec.Set(types.ColUUID, "loc-rb")
		rec.Set(types.ColName, "Rollback")
		rec.Set(types.ColLatitude, 0.0)
		rec.Set(types.ColLongitude, 0.0)
		if _, err := tx.Insert(ctx, types.LocationsTable, rec); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	recs, err := db.Select(ctx, Query{Table: types.LocationsTable})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestInTxCommits(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.InTx(ctx, func(tx *Database) error {
		rec := types.NewRecord()
		rec.Set(types.ColUUID, "loc-ok")
		rec.Set(types.ColName, "Committed")
		rec.Set(types.ColLatitude, 0.0)
		rec.Set(types.ColLongitude, 0.0)
		_, err := tx.Insert(ctx, types.LocationsTable, rec)
		return err
	})
	require.NoError(t, err)

	recs, err := db.Select(ctx, Query{Table: types.LocationsTable})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Committed", recs[0].String(types.ColName, ""))
}

func TestInTxNestedReusesTransaction(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.InTx(ctx, func(tx *Database) error {
		return tx.InTx(ctx, func(inner *Database) error {
			rec := types.NewRecord()
			rec.Set(types.ColUUID, "loc-nested")
			rec.Set(types.ColName, "Nested")
			rec.Set(types.ColLatitude, 0.0)
			rec.Set(types.ColLongitude, 0.0)
			_, err := inner.Insert(ctx, types.LocationsTable, rec)
			return err
		})
	})
	require.NoError(t, err)

	recs, err := db.Select(ctx, Query{Table: types.LocationsTable})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestForeignKeyCascade(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	cat := types.NewRecord()
	cat.Set(types.ColUUID, "cat-fk")
	cat.Set(types.ColName, "FK Test")
	catID, err := db.Insert(ctx, types.CategoriesTable, cat)
	require.NoError(t, err)

	extra := types.NewRecord()
	extra.Set(types.ColUUID, "ex-fk")
	extra.Set(types.ColCategoryID, catID)
	extra.Set(types.ColName, "ABV")
	extra.Set(types.ColPosition, int64(0))
	_, err = db.Insert(ctx, types.ExtrasTable, extra)
	require.NoError(t, err)

	_, err = db.Delete(ctx, types.CategoriesTable, types.ColID+" = ?", catID)
	require.NoError(t, err)

	recs, err := db.Select(ctx, Query{
		Table: types.ExtrasTable,
		Where: types.ColCategoryID + " = ?",
		Args:  []any{catID},
	})
	require.NoError(t, err)
	assert.Empty(t, recs, "child rows must cascade")
}

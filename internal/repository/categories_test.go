package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/internal/sqlite"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

func TestSaveCategoryInsert(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	c := &model.Category{}
	c.SetName("Sake")
	require.NoError(t, r.SaveCategory(ctx, c, nil, nil))

	require.NotZero(t, c.ID())
	assert.NotEmpty(t, c.UUID())
	assert.False(t, c.IsPreset())
	assert.Equal(t, int64(0), c.EntryCount())

	got, err := r.Category(ctx, c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestSaveCategoryEmptyNameRejected(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	before, err := r.Categories(ctx)
	require.NoError(t, err)

	c := &model.Category{}
	c.SetName("  _ ")
	assert.ErrorIs(t, r.SaveCategory(ctx, c, nil, nil), types.ErrInvalidName)

	after, err := r.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestSaveCategoryDuplicateNameGetsSuffix(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	a := &model.Category{}
	a.SetName("Mead")
	require.NoError(t, r.SaveCategory(ctx, a, nil, nil))
	assert.Equal(t, "Mead (2)", a.Name())

	b := &model.Category{}
	b.SetName("Mead")
	require.NoError(t, r.SaveCategory(ctx, b, nil, nil))
	assert.Equal(t, "Mead (3)", b.Name())
}

func TestSaveCategoryPresetNameImmutable(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	c := mustCategory(t, r, "Mead")
	c.SetName("Renamed")
	require.NoError(t, r.SaveCategory(ctx, c, nil, nil))
	assert.Equal(t, "Mead", c.Name())
}

func TestSaveCategoryRename(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	c := &model.Category{}
	c.SetName("Sake")
	require.NoError(t, r.SaveCategory(ctx, c, nil, nil))

	changed := 0
	c.OnChanged(func() { changed++ })

	c.SetName("Rice Wine")
	require.NoError(t, r.SaveCategory(ctx, c, nil, nil))
	assert.Equal(t, "Rice Wine", c.Name())
	assert.Equal(t, 1, changed)
}

func TestSaveCategoryExtrasOrdering(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	c := &model.Category{}
	c.SetName("Sake")
	submit := func(names ...string) []*model.Extra {
		out := make([]*model.Extra, 0, len(names))
		for _, n := range names {
			x := &model.Extra{}
			x.SetName(n)
			out = append(out, x)
		}
		return out
	}
	require.NoError(t, r.SaveCategory(ctx, c, submit("Polish ratio", "Rice", "Prefecture"), nil))

	extras, err := r.CategoryExtras(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, extras, 3)
	for i, x := range extras {
		assert.Equal(t, int64(i), x.Position())
		assert.NotZero(t, x.ID())
		assert.NotEmpty(t, x.UUID())
	}
	assert.Equal(t, "Polish ratio", extras[0].Name())

	t.Run("resubmit reorders and drops omitted", func(t *testing.T) {
		require.NoError(t, r.SaveCategory(ctx, c, []*model.Extra{extras[2], extras[0]}, nil))

		got, err := r.CategoryExtras(ctx, c.ID())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Prefecture", got[0].Name())
		assert.Equal(t, int64(0), got[0].Position())
		assert.Equal(t, "Polish ratio", got[1].Name())
		assert.Equal(t, int64(1), got[1].Position())
	})

	t.Run("blank new extra rejected", func(t *testing.T) {
		err := r.SaveCategory(ctx, c, submit("  "), nil)
		assert.ErrorIs(t, err, types.ErrInvalidName)
	})
}

func TestSaveCategoryExtraRemovalRenumbers(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	c := &model.Category{}
	c.SetName("Whisky")
	submit := make([]*model.Extra, 0, 4)
	for _, n := range []string{"Age", "Cask", "Region", "Strength"} {
		x := &model.Extra{}
		x.SetName(n)
		submit = append(submit, x)
	}
	require.NoError(t, r.SaveCategory(ctx, c, submit, nil))

	// Drop the second of four; the survivors keep their relative order and
	// renumber to 0, 1, 2.
	require.NoError(t, r.SaveCategory(ctx, c, []*model.Extra{submit[0], submit[2], submit[3]}, nil))

	extras, err := r.CategoryExtras(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, extras, 3)
	want := []string{"Age", "Region", "Strength"}
	for i, x := range extras {
		assert.Equal(t, want[i], x.Name())
		assert.Equal(t, int64(i), x.Position())
	}
}

func TestSaveCategoryPresetExtraSoftDeleted(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	c := mustCategory(t, r, "Mead")
	extras, err := r.CategoryExtras(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, extras, 2) // Honey, Yeast

	// Omit Yeast: the preset row must survive soft-deleted, not vanish.
	require.NoError(t, r.SaveCategory(ctx, c, extras[:1], nil))

	visible, err := r.CategoryExtras(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Honey", visible[0].Name())

	rows, err := r.db.Select(ctx, sqlite.Query{
		Table: types.ExtrasTable,
		Where: types.ColCategoryID + " = ?",
		Args:  []any{c.ID()},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2, "preset row is retained")

	t.Run("resubmitting revives the preset", func(t *testing.T) {
		require.NoError(t, r.SaveCategory(ctx, c, extras, nil))
		visible, err := r.CategoryExtras(ctx, c.ID())
		require.NoError(t, err)
		assert.Len(t, visible, 2)
	})
}

func TestSaveCategoryFlavorsReplaced(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	c := mustCategory(t, r, "Cider")
	require.NoError(t, r.SaveCategory(ctx, c, nil, []string{"Apple", "Oak", "", "Funk"}))

	flavors, err := r.CategoryFlavors(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, flavors, 3, "blank names are skipped")
	for i, f := range flavors {
		assert.Equal(t, int64(i), f.Position())
	}
	assert.Equal(t, "Apple", flavors[0].Name())
	assert.Equal(t, "Funk", flavors[2].Name())
}

func TestDeleteCategoryPresetRejected(t *testing.T) {
	r := openTestRepo(t, Options{})
	c := mustCategory(t, r, "Beer")
	assert.ErrorIs(t, r.DeleteCategory(context.Background(), c), types.ErrPreset)
}

func TestDeleteCategoryUnsavedRejected(t *testing.T) {
	r := openTestRepo(t, Options{})
	assert.ErrorIs(t, r.DeleteCategory(context.Background(), &model.Category{}), types.ErrNotPersisted)
}

func TestDeleteCategoryCascades(t *testing.T) {
	var invalidated []int64
	r := openTestRepo(t, Options{
		InvalidateThumbnail: func(entryID int64) { invalidated = append(invalidated, entryID) },
	})
	ctx := context.Background()

	c := &model.Category{}
	c.SetName("Sake")
	require.NoError(t, r.SaveCategory(ctx, c, nil, nil))

	e1 := mustSaveEntry(t, r, "Junmai", "Sake")
	e2 := mustSaveEntry(t, r, "Ginjo", "Sake")

	var order []string
	c.OnDeleted(func() { order = append(order, "category") })
	e1.OnDeleted(func() { order = append(order, "entry") })
	e2.OnDeleted(func() { order = append(order, "entry") })

	require.NoError(t, r.DeleteCategory(ctx, c))

	// The category's deletion is announced before its entries'.
	assert.Equal(t, []string{"category", "entry", "entry"}, order)
	assert.ElementsMatch(t, []int64{e1.ID(), e2.ID()}, invalidated)

	entries, err := r.Entries(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = r.Category(ctx, c.ID())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

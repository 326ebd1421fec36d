package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// openTestRepo opens a repository on an isolated temp directory with the
// default schema and presets.
func openTestRepo(t *testing.T, opts Options) *Repository {
	t.Helper()
	r, err := Open(context.Background(), types.Config{DataDir: t.TempDir()}, opts)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

// mustCategory finds a category by name or fails the test.
func mustCategory(t *testing.T, r *Repository, name string) *model.Category {
	t.Helper()
	cats, err := r.Categories(context.Background())
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("category %q not found", name)
	return nil
}

// mustSaveEntry creates an entry under the named category.
func mustSaveEntry(t *testing.T, r *Repository, title, category string) *model.Entry {
	t.Helper()
	e := &model.Entry{}
	e.SetTitle(title)
	require.NoError(t, r.SaveEntry(context.Background(), e, SaveEntryInput{CategoryName: category}))
	return e
}

func TestOpenSeedsPresetCategories(t *testing.T) {
	r := openTestRepo(t, Options{})

	cats, err := r.Categories(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name())
		assert.True(t, c.IsPreset())
		assert.Equal(t, int64(0), c.EntryCount())
	}
	assert.Equal(t, []string{"Beer", "Cider", "Mead", "Wine"}, names)
}

func TestCategoryIdentity(t *testing.T) {
	// Loading the same row twice must yield the same live instance.
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	a := mustCategory(t, r, "Mead")
	b, err := r.Category(ctx, a.ID())
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestExistsUUID(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	cat := mustCategory(t, r, "Mead")
	ok, err := r.ExistsUUID(ctx, types.CategoriesTable, cat.UUID())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.ExistsUUID(ctx, types.CategoriesTable, "no-such-uuid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOnChangeStream(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	var got []Change
	off := r.OnChange(func(c Change) { got = append(got, c) })

	l := &model.Location{}
	l.SetName("Cellar")
	l.SetLatitude(48.1)
	l.SetLongitude(11.5)
	require.NoError(t, r.SaveLocation(ctx, l))
	require.NoError(t, r.SaveLocation(ctx, l))
	require.NoError(t, r.DeleteLocation(ctx, l))

	require.Len(t, got, 3)
	assert.Equal(t, ActionInsert, got[0].Action)
	assert.Equal(t, ActionUpdate, got[1].Action)
	assert.Equal(t, ActionDelete, got[2].Action)
	assert.Same(t, l, got[0].Entity)

	off()
	l2 := &model.Location{}
	l2.SetName("Garage")
	require.NoError(t, r.SaveLocation(ctx, l2))
	assert.Len(t, got, 3, "unsubscribed observer must not receive events")
}

func TestFilterName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mead", "Mead"},
		{"  Mead  ", "Mead"},
		{"__hidden", "hidden"},
		{"_ _Mead", "Mead"},
		{"inner space kept", "inner space kept"},
		{"   ", ""},
		{"___", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filterName(tt.in), "filterName(%q)", tt.in)
	}
}

func TestLocationsLifecycle(t *testing.T) {
	r := openTestRepo(t, Options{})
	ctx := context.Background()

	t.Run("empty name rejected", func(t *testing.T) {
		l := &model.Location{}
		l.SetName("  ")
		assert.ErrorIs(t, r.SaveLocation(ctx, l), types.ErrInvalidName)
	})

	l := &model.Location{}
	l.SetName("Balcony")
	l.SetLatitude(52.5)
	l.SetLongitude(13.4)
	require.NoError(t, r.SaveLocation(ctx, l))
	require.NotZero(t, l.ID())
	assert.NotEmpty(t, l.UUID())

	t.Run("listed ordered by name", func(t *testing.T) {
		l2 := &model.Location{}
		l2.SetName("Attic")
		require.NoError(t, r.SaveLocation(ctx, l2))

		locs, err := r.Locations(ctx)
		require.NoError(t, err)
		require.Len(t, locs, 2)
		assert.Equal(t, "Attic", locs[0].Name())
		assert.Equal(t, "Balcony", locs[1].Name())
	})

	t.Run("delete", func(t *testing.T) {
		deleted := false
		l.OnDeleted(func() { deleted = true })
		require.NoError(t, r.DeleteLocation(ctx, l))
		assert.True(t, deleted)

		unsaved := &model.Location{}
		assert.ErrorIs(t, r.DeleteLocation(ctx, unsaved), types.ErrNotPersisted)
	})
}

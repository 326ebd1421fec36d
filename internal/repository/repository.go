// Package repository implements the multi-table CRUD orchestration layer:
// it composes the query engine with per-type identity caches and publishes a
// single process-wide change stream for structural writes.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/cellar/internal/logging"
	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/internal/sqlite"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Options configures collaborators consumed by the repository.
type Options struct {
	// Loader owns schema creation and upgrades. Defaults to the built-in
	// schema loader.
	Loader sqlite.Loader

	// FlavorNames supplies the default flavor set when a category is
	// auto-created by name. Defaults to the built-in loader's preset lists.
	FlavorNames func(category string) []string

	// InvalidateThumbnail is called with each entry id whose row was removed,
	// including entries removed by a category cascade.
	InvalidateThumbnail func(entryID int64)

	// Logger defaults to a discard logger.
	Logger logging.Logger
}

// Repository is the orchestration layer over one journal database.
type Repository struct {
	db  *sqlite.Database
	log logging.Logger

	categories *model.Cache[model.Category, *model.Category]
	entries    *model.Cache[model.Entry, *model.Entry]
	photos     *model.Cache[model.Photo, *model.Photo]
	makers     *model.Cache[model.Maker, *model.Maker]
	locations  *model.Cache[model.Location, *model.Location]

	flavorNames func(category string) []string
	thumbs      func(entryID int64)

	stream changeStream
}

// Open opens (creating if needed) the journal database described by cfg and
// returns a ready repository.
func Open(ctx context.Context, cfg types.Config, opts Options) (*Repository, error) {
	loader := opts.Loader
	if loader == nil {
		loader = sqlite.NewSchemaLoader()
	}
	flavorNames := opts.FlavorNames
	if flavorNames == nil {
		if sl, ok := loader.(*sqlite.SchemaLoader); ok {
			flavorNames = sl.FlavorNames
		}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	db, err := sqlite.Open(ctx, cfg, loader)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{
		db:          db,
		log:         log,
		categories:  model.NewCache[model.Category](),
		entries:     model.NewCache[model.Entry](),
		photos:      model.NewCache[model.Photo](),
		makers:      model.NewCache[model.Maker](),
		locations:   model.NewCache[model.Location](),
		flavorNames: flavorNames,
		thumbs:      opts.InvalidateThumbnail,
	}, nil
}

// Close releases the underlying database. Close is idempotent.
func (r *Repository) Close() error {
	return r.db.Close()
}

// ExistsUUID reports whether any row in table carries the given uuid.
func (r *Repository) ExistsUUID(ctx context.Context, table, id string) (bool, error) {
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table:   table,
		Columns: []string{types.ColID},
		Where:   types.ColUUID + " = ?",
		Args:    []any{id},
		Limit:   1,
	})
	if err != nil {
		return false, err
	}
	return len(recs) > 0, nil
}

// newUUID generates a UUID v7 string for the lazily assigned uuid column.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// filterName normalizes a submitted name or title: leading spaces and
// underscores and trailing spaces are trimmed. An empty result means the
// value is rejected for non-preset rows.
func filterName(s string) string {
	s = strings.TrimLeft(s, " _")
	return strings.TrimRight(s, " ")
}

// uniqueTitle probes candidate, then "candidate (2)", "candidate (3)", ...
// against existing rows until an unused value is found. selfID excludes the
// row being written from the collision set.
func uniqueTitle(ctx context.Context, db *sqlite.Database, table, column, candidate string, selfID int64) (string, error) {
	recs, err := db.Select(ctx, sqlite.Query{
		Table:   table,
		Columns: []string{types.ColID, column},
		Where:   column + " LIKE ?",
		Args:    []any{candidate + "%"},
	})
	if err != nil {
		return "", err
	}

	taken := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if rec.ID() == selfID {
			continue
		}
		taken[rec.String(column, "")] = true
	}

	if !taken[candidate] {
		return candidate, nil
	}
	for i := 2; ; i++ {
		probe := fmt.Sprintf("%s (%d)", candidate, i)
		if !taken[probe] {
			return probe, nil
		}
	}
}

// refreshCategory re-reads a category row and, if an instance is live in the
// identity cache, applies the fresh record and fires its "changed"
// broadcast. Used after denormalized counter updates.
func (r *Repository) refreshCategory(ctx context.Context, id int64) {
	cat, ok := r.categories.Lookup(id)
	if !ok {
		return
	}
	recs, err := r.db.Select(ctx, sqlite.Query{
		Table: types.CategoriesTable,
		Where: types.ColID + " = ?",
		Args:  []any{id},
		Limit: 1,
	})
	if err != nil || len(recs) == 0 {
		return
	}
	cat.SetData(recs[0])
	cat.Changed()
}

// This file implements the default schema loader: create/upgrade callbacks
// plus preset category seeding on first creation.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// SchemaVersion is the version produced by the default loader.
const SchemaVersion = 1

// presetCategory describes a built-in category to seed on first creation.
type presetCategory struct {
	name    string
	extras  []string
	flavors []string
}

// presetCategories defines the categories shipped with the application.
// Preset rows are soft-deletable only; the repository never removes them.
var presetCategories = []presetCategory{
	{
		name:    "Mead",
		extras:  []string{"Honey", "Yeast"},
		flavors: []string{"Sweet", "Tart", "Floral", "Honey", "Oak", "Spice"},
	},
	{
		name:    "Beer",
		extras:  []string{"Style", "ABV"},
		flavors: []string{"Malt", "Hop", "Bitter", "Citrus", "Caramel", "Roast"},
	},
	{
		name:    "Wine",
		extras:  []string{"Grape", "Vintage"},
		flavors: []string{"Fruit", "Tannin", "Oak", "Earth", "Spice", "Floral"},
	},
	{
		name:    "Cider",
		extras:  []string{"Apple variety"},
		flavors: []string{"Apple", "Sweet", "Tart", "Funk", "Spice"},
	},
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SchemaLoader is the default Loader implementation. It also carries the
// preset flavor-name lists consumed when a category is auto-created from a
// preset name.
type SchemaLoader struct{}

// NewSchemaLoader returns the default loader.
func NewSchemaLoader() *SchemaLoader {
	return &SchemaLoader{}
}

// TargetVersion implements Loader.
func (l *SchemaLoader) TargetVersion() int {
	return SchemaVersion
}

// Create builds the full schema and seeds the preset categories.
func (l *SchemaLoader) Create(ctx context.Context, db *Database) error {
	return db.InTx(ctx, func(tx *Database) error {
		for _, stmt := range schemaDDL {
			if err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("creating table: %w", err)
			}
		}
		for _, stmt := range viewDDL {
			if err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("creating view: %w", err)
			}
		}
		for _, stmt := range indexDDL {
			if err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("creating index: %w", err)
			}
		}
		return seedPresets(ctx, tx)
	})
}

// Upgrade implements Loader. Version 1 is the first schema; there is nothing
// to migrate from yet.
func (l *SchemaLoader) Upgrade(ctx context.Context, db *Database, oldVersion int) error {
	return fmt.Errorf("no upgrade path from schema version %d", oldVersion)
}

// FlavorNames returns the default flavor set for a preset category name, or
// nil for unknown names.
func (l *SchemaLoader) FlavorNames(category string) []string {
	for _, pc := range presetCategories {
		if pc.name == category {
			return append([]string(nil), pc.flavors...)
		}
	}
	return nil
}

// seedPresets creates the preset categories with their extra definitions and
// default flavor sets. Seeding is idempotent: it only runs when the
// categories table is empty.
func seedPresets(ctx context.Context, db *Database) error {
	rows, err := db.Select(ctx, Query{
		Table:   types.CategoriesTable,
		Columns: []string{"COUNT(*) AS n"},
	})
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if len(rows) > 0 && rows[0].Int64("n", 0) > 0 {
		return nil
	}

	now := time.Now()
	for _, pc := range presetCategories {
		cat := types.NewRecord()
		cat.Set(types.ColUUID, newUUID())
		cat.Set(types.ColName, pc.name)
		cat.SetBool(types.ColIsPreset, true)
		cat.SetTime(types.ColUpdated, now)
		cat.SetBool(types.ColIsPublished, false)
		cat.SetBool(types.ColIsSynced, false)
		cat.Set(types.ColEntryCount, int64(0))

		catID, err := db.Insert(ctx, types.CategoriesTable, cat)
		if err != nil {
			return fmt.Errorf("seeding category %s: %w", pc.name, err)
		}
		if catID == InsertFailed {
			return fmt.Errorf("seeding category %s: no row created", pc.name)
		}

		for i, name := range pc.extras {
			extra := types.NewRecord()
			extra.Set(types.ColUUID, newUUID())
			extra.Set(types.ColCategoryID, catID)
			extra.Set(types.ColName, name)
			extra.Set(types.ColPosition, int64(i))
			extra.SetBool(types.ColIsPreset, true)
			extra.SetBool(types.ColIsDeleted, false)
			if _, err := db.Insert(ctx, types.ExtrasTable, extra); err != nil {
				return fmt.Errorf("seeding extra %s: %w", name, err)
			}
		}

		for i, name := range pc.flavors {
			flavor := types.NewRecord()
			flavor.Set(types.ColCategoryID, catID)
			flavor.Set(types.ColName, name)
			flavor.Set(types.ColPosition, int64(i))
			if _, err := db.Insert(ctx, types.FlavorsTable, flavor); err != nil {
				return fmt.Errorf("seeding flavor %s: %w", name, err)
			}
		}
	}
	return nil
}

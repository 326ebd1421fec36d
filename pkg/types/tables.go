package types

// Table names for the journal schema.
const (
	CategoriesTable   = "categories"
	EntriesTable      = "entries"
	ExtrasTable       = "extras"
	EntryExtrasTable  = "entry_extras"
	FlavorsTable      = "flavors"
	EntryFlavorsTable = "entry_flavors"
	MakersTable       = "makers"
	PhotosTable       = "photos"
	LocationsTable    = "locations"
)

// Read-side views joining denormalized display columns.
const (
	EntriesView     = "entries_view"
	EntryExtrasView = "entry_extras_view"
)

// StandardTableNames lists all base table names for enumeration.
var StandardTableNames = []string{
	CategoriesTable,
	EntriesTable,
	ExtrasTable,
	EntryExtrasTable,
	FlavorsTable,
	EntryFlavorsTable,
	MakersTable,
	PhotosTable,
	LocationsTable,
}

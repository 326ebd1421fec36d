package sqlite

// Schema DDL for all journal tables.
const (
	createCategories = `CREATE TABLE categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    is_preset INTEGER NOT NULL DEFAULT 0,
    updated INTEGER NOT NULL DEFAULT 0,
    is_published INTEGER NOT NULL DEFAULT 0,
    is_synced INTEGER NOT NULL DEFAULT 0,
    entry_count INTEGER NOT NULL DEFAULT 0
);`

	createEntries = `CREATE TABLE entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    category_id INTEGER NOT NULL,
    category_uuid TEXT NOT NULL DEFAULT '',
    maker_id INTEGER NOT NULL DEFAULT 0,
    price REAL NOT NULL DEFAULT 0,
    location TEXT NOT NULL DEFAULT '',
    date INTEGER NOT NULL DEFAULT 0,
    rating INTEGER NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    updated INTEGER NOT NULL DEFAULT 0,
    is_published INTEGER NOT NULL DEFAULT 0,
    is_synced INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
);`

	createExtras = `CREATE TABLE extras (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL DEFAULT '',
    category_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    is_preset INTEGER NOT NULL DEFAULT 0,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
);`

	createEntryExtras = `CREATE TABLE entry_extras (
    entry_id INTEGER NOT NULL,
    extra_id INTEGER NOT NULL,
    uuid TEXT NOT NULL DEFAULT '',
    value TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (entry_id, extra_id),
    FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE,
    FOREIGN KEY (extra_id) REFERENCES extras(id) ON DELETE CASCADE
);`

	createFlavors = `CREATE TABLE flavors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
);`

	createEntryFlavors = `CREATE TABLE entry_flavors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    value INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
);`

	createMakers = `CREATE TABLE makers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT ''
);`

	createPhotos = `CREATE TABLE photos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL DEFAULT '',
    entry_id INTEGER NOT NULL,
    hash TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL DEFAULT '',
    drive_id TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0,
    updated INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
);`

	createLocations = `CREATE TABLE locations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL DEFAULT '',
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    name TEXT NOT NULL
);`
)

// Read-side views carrying denormalized display columns.
const (
	createEntriesView = `CREATE VIEW entries_view AS
SELECT entries.*,
    categories.name AS category_name,
    makers.name AS maker,
    makers.location AS origin
FROM entries
LEFT JOIN categories ON categories.id = entries.category_id
LEFT JOIN makers ON makers.id = entries.maker_id;`

	createEntryExtrasView = `CREATE VIEW entry_extras_view AS
SELECT entry_extras.entry_id,
    entry_extras.extra_id,
    entry_extras.uuid,
    entry_extras.value,
    extras.name,
    extras.position,
    extras.is_preset,
    extras.is_deleted
FROM entry_extras
JOIN extras ON extras.id = entry_extras.extra_id;`
)

// Index DDL for common queries.
const (
	idxCategoriesName    = `CREATE INDEX idx_categories_name ON categories(name);`
	idxCategoriesUUID    = `CREATE INDEX idx_categories_uuid ON categories(uuid);`
	idxEntriesCategory   = `CREATE INDEX idx_entries_category ON entries(category_id);`
	idxEntriesTitle      = `CREATE INDEX idx_entries_title ON entries(title);`
	idxEntriesUUID       = `CREATE INDEX idx_entries_uuid ON entries(uuid);`
	idxExtrasCategory    = `CREATE INDEX idx_extras_category ON extras(category_id);`
	idxFlavorsCategory   = `CREATE INDEX idx_flavors_category ON flavors(category_id);`
	idxEntryFlavorsEntry = `CREATE INDEX idx_entry_flavors_entry ON entry_flavors(entry_id);`
	idxPhotosEntry       = `CREATE INDEX idx_photos_entry ON photos(entry_id);`
	idxMakersPair        = `CREATE UNIQUE INDEX idx_makers_pair ON makers(name, location);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCategories,
	createMakers,
	createEntries,
	createExtras,
	createEntryExtras,
	createFlavors,
	createEntryFlavors,
	createPhotos,
	createLocations,
}

// viewDDL lists all CREATE VIEW statements.
var viewDDL = []string{
	createEntriesView,
	createEntryExtrasView,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxCategoriesName,
	idxCategoriesUUID,
	idxEntriesCategory,
	idxEntriesTitle,
	idxEntriesUUID,
	idxExtrasCategory,
	idxFlavorsCategory,
	idxEntryFlavorsEntry,
	idxPhotosEntry,
	idxMakersPair,
}

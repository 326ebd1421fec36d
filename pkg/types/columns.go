package types

// Column names shared across tables.
const (
	ColID          = "id"
	ColUUID        = "uuid"
	ColName        = "name"
	ColTitle       = "title"
	ColPosition    = "position"
	ColUpdated     = "updated"
	ColIsPreset    = "is_preset"
	ColIsDeleted   = "is_deleted"
	ColIsPublished = "is_published"
	ColIsSynced    = "is_synced"
)

// Category columns.
const (
	ColEntryCount = "entry_count"
)

// Entry columns.
const (
	ColCategoryID   = "category_id"
	ColCategoryUUID = "category_uuid"
	ColCategoryName = "category_name"
	ColMakerID      = "maker_id"
	ColMaker        = "maker"
	ColOrigin       = "origin"
	ColPrice        = "price"
	ColLocation     = "location"
	ColDate         = "date"
	ColRating       = "rating"
	ColNotes        = "notes"
)

// Extra and flavor columns.
const (
	ColEntryID = "entry_id"
	ColExtraID = "extra_id"
	ColValue   = "value"
)

// Photo columns.
const (
	ColHash    = "hash"
	ColPath    = "path"
	ColDriveID = "drive_id"
)

// Location columns.
const (
	ColLatitude  = "latitude"
	ColLongitude = "longitude"
)

package types

import "errors"

// Storage and repository operation errors.
var (
	ErrNotAttached    = errors.New("database not attached")
	ErrAlreadyOpen    = errors.New("database already open")
	ErrTableNotFound  = errors.New("table not found")
	ErrNotFound       = errors.New("entity not found")
	ErrInvalidName    = errors.New("invalid name")
	ErrInvalidTitle   = errors.New("invalid title")
	ErrNotPersisted   = errors.New("entity has no row id")
	ErrPreset         = errors.New("preset entities cannot be deleted")
	ErrDeleted        = errors.New("entity already deleted")
	ErrInvalidVersion = errors.New("schema version is newer than supported")
)

// Package types defines the Record column map, table name constants,
// configuration, and standard errors shared by the cellar storage core.
package types

// Package cellar provides the public API for the tasting journal store.
// It exposes the repository factory while keeping implementation details
// internal.
package cellar

import (
	"context"

	"github.com/mesh-intelligence/cellar/internal/repository"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Version is the library and CLI version.
const Version = "0.1.0"

// Repository is the multi-table store over a single journal database.
type Repository = repository.Repository

// Options configures an Open call. The zero value uses the default schema
// loader, preset flavor defaults, and a discard logger.
type Options = repository.Options

// Change describes one committed mutation on the change stream.
type Change = repository.Change

// SaveEntryInput carries the collaborating values for one entry save.
type SaveEntryInput = repository.SaveEntryInput

// ExtraValue and FlavorValue are entry save sub-inputs.
type (
	ExtraValue  = repository.ExtraValue
	FlavorValue = repository.FlavorValue
)

// Change stream actions.
const (
	ActionInsert = repository.ActionInsert
	ActionUpdate = repository.ActionUpdate
	ActionDelete = repository.ActionDelete
)

// Open attaches a repository to the database under cfg.DataDir, creating or
// upgrading the schema as needed.
//
// Example:
//
//	repo, err := cellar.Open(ctx, types.Config{DataDir: dir}, cellar.Options{})
//	if err != nil { ... }
//	defer repo.Close()
func Open(ctx context.Context, cfg types.Config, opts Options) (*Repository, error) {
	return repository.Open(ctx, cfg, opts)
}

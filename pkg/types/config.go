package types

import "errors"

// Config holds storage parameters for opening a journal database.
type Config struct {
	DataDir string `json:"data_dir" yaml:"data_dir"`
	DBFile  string `json:"db_file,omitempty" yaml:"db_file,omitempty"`
}

// DefaultDBFile is used when Config.DBFile is empty.
const DefaultDBFile = "cellar.db"

// Config validation errors.
var (
	ErrDataDirEmpty = errors.New("data directory must not be empty")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	return nil
}

// File returns the database file name, applying the default when unset.
func (c Config) File() string {
	if c.DBFile == "" {
		return DefaultDBFile
	}
	return c.DBFile
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/cellar/pkg/cellar"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataDir string `yaml:"data_dir,omitempty"`
	DBFile  string `yaml:"db_file,omitempty"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the journal database",
		Long:  "Create configuration and data directories, then create the journal database with its preset categories.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("resolve config directory: %s", err))
	}
	if err := ensureConfigDir(configDir); err != nil {
		return exitError(exitSysError, fmt.Sprintf("create config directory: %s", err))
	}

	cfg, err := resolveStorageConfig()
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("resolve data directory: %s", err))
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return exitError(exitSysError, fmt.Sprintf("create data directory: %s", err))
	}

	if err := writeConfigIfMissing(configFilePath(configDir), cfg.DataDir); err != nil {
		return exitError(exitSysError, fmt.Sprintf("write config: %s", err))
	}

	// Opening creates the schema and seeds the presets; closing releases
	// the handle again.
	repo, err := cellar.Open(cmd.Context(), cfg, cellar.Options{})
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("initialize storage: %s", err))
	}
	if err := repo.Close(); err != nil {
		return exitError(exitSysError, fmt.Sprintf("finalize storage: %s", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized cellar in %s\n", cfg.DataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		DataDir: dataDir,
		DBFile:  types.DefaultDBFile,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

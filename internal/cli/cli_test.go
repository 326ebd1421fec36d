package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in-process with isolated config and data
// directories and returns stdout.
func runCLI(t *testing.T, configDir, dataDir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config-dir", configDir, "--data-dir", dataDir}, args...))
	require.NoError(t, root.Execute(), "cellar %v", args)
	return out.String()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestVersionCommand(t *testing.T) {
	out := runCLI(t, t.TempDir(), t.TempDir(), "version")
	assert.Contains(t, out, "cellar v")
	assert.Contains(t, out, modulePath)
}

func TestInitCommand(t *testing.T) {
	configDir := t.TempDir()
	dataDir := t.TempDir()

	out := runCLI(t, configDir, dataDir, "init")
	assert.Contains(t, out, "Initialized cellar")

	_, err := os.Stat(filepath.Join(dataDir, "cellar.db"))
	assert.NoError(t, err, "database file created")
	_, err = os.Stat(filepath.Join(configDir, "config.yaml"))
	assert.NoError(t, err, "config.yaml created")

	t.Run("idempotent", func(t *testing.T) {
		out := runCLI(t, configDir, dataDir, "init")
		assert.Contains(t, out, "Initialized cellar")
	})
}

func TestCategoryListShowsPresets(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	runCLI(t, configDir, dataDir, "init")

	out := runCLI(t, configDir, dataDir, "category", "list")
	for _, name := range []string{"Beer", "Cider", "Mead", "Wine"} {
		assert.Contains(t, out, name)
	}
}

func TestEntryWorkflow(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	runCLI(t, configDir, dataDir, "init")

	out := runCLI(t, configDir, dataDir, "entry", "add", "Bochet",
		"--category", "Mead",
		"--maker", "Hive & Barrel", "--origin", "Vermont",
		"--rating", "4",
		"--flavor", "Sweet=4", "--flavor", "Honey=5",
		"--extra", "Honey=Orange blossom")
	assert.Contains(t, out, `Added entry "Bochet"`)

	t.Run("list json", func(t *testing.T) {
		out := runCLI(t, configDir, dataDir, "--json", "entry", "list")
		var entries []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "Bochet", entries[0]["title"])
		assert.Equal(t, "Mead", entries[0]["category"])
		assert.Equal(t, "Hive & Barrel", entries[0]["maker"])
	})

	t.Run("show", func(t *testing.T) {
		out := runCLI(t, configDir, dataDir, "--json", "entry", "list")
		var entries []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		id := int64(entries[0]["id"].(float64))

		show := runCLI(t, configDir, dataDir, "entry", "show", formatID(id))
		assert.Contains(t, show, "Bochet")
		assert.Contains(t, show, "flavor Sweet: 4/5")
		assert.Contains(t, show, "Honey: Orange blossom")
	})

	t.Run("maker listed", func(t *testing.T) {
		out := runCLI(t, configDir, dataDir, "maker", "list")
		assert.Contains(t, out, "Hive & Barrel")
		assert.Contains(t, out, "Vermont")
	})

	t.Run("remove", func(t *testing.T) {
		out := runCLI(t, configDir, dataDir, "--json", "entry", "list")
		var entries []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		id := int64(entries[0]["id"].(float64))

		rm := runCLI(t, configDir, dataDir, "entry", "rm", formatID(id))
		assert.Contains(t, rm, "Removed entry")

		after := runCLI(t, configDir, dataDir, "--json", "entry", "list")
		var remaining []map[string]any
		require.NoError(t, json.Unmarshal([]byte(after), &remaining))
		assert.Empty(t, remaining)
	})
}

func TestLocationWorkflow(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	runCLI(t, configDir, dataDir, "init")

	out := runCLI(t, configDir, dataDir, "location", "add", "Balcony", "--lat", "52.5", "--lon", "13.4")
	assert.Contains(t, out, `Saved location "Balcony"`)

	list := runCLI(t, configDir, dataDir, "location", "list")
	assert.Contains(t, list, "Balcony")
	assert.Contains(t, list, "52.5")
}

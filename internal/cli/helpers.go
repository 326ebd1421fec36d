// Shared helpers for cellar CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/cellar/internal/logging"
	"github.com/mesh-intelligence/cellar/pkg/cellar"
)

// openRepo resolves the data directory and opens the repository. The caller
// must defer repo.Close().
func openRepo(ctx context.Context) (*cellar.Repository, error) {
	cfg, err := resolveStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("resolve storage config: %w", err)
	}

	logger := logging.Discard()
	if os.Getenv("CELLAR_DEBUG") != "" {
		logger = logging.NewTextLogger(os.Stderr, slog.LevelDebug)
	}

	repo, err := cellar.Open(ctx, cfg, cellar.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePair splits "name=value". The value may contain further '='.
func parsePair(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("expected name=value, got %q", s)
	}
	return name, value, nil
}

// parseRatingPair splits "name=n" with an integer value.
func parseRatingPair(s string) (string, int64, error) {
	name, raw, err := parsePair(s)
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("rating for %q must be a number: %w", name, err)
	}
	return name, n, nil
}

package www

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// WritePages persists rendered pages into the output directory. Pages
// map file name to content.
func WritePages(logger *slog.Logger, dir string, pages map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for name, content := range pages {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("failed to write page %s: %w", name, err)
		}
		logger.Debug("wrote page", slog.String("path", path), slog.Int("bytes", len(content)))
	}

	return nil
}

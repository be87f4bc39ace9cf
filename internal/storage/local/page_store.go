// Package local persists intermediate page images on the local
// filesystem, keyed by sequence index. The files exist for crash
// recovery and inspection; the final document never depends on them.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config captures the parameters for the local page store.
type Config struct {
	// BaseDir is the directory page images are written under.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// PageStore writes page artifacts to the local filesystem.
type PageStore struct {
	baseDir string
}

// New creates a filesystem-backed page store, verifying the base
// directory exists and is writable so a bad path fails at startup rather
// than on the first captured page.
func New(cfg Config) (*PageStore, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(cfg.BaseDir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("base directory path is not a directory")
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
		}
	default:
		return nil, fmt.Errorf("failed to stat base directory: %w", err)
	}

	testFile := filepath.Join(cfg.BaseDir, ".writable_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	if err := os.Remove(testFile); err != nil {
		return nil, fmt.Errorf("failed to clean up test file: %w", err)
	}

	return &PageStore{baseDir: cfg.BaseDir}, nil
}

// PutPage writes one page image as page_NNN.<format> and returns the
// path. The zero-padded index keeps a directory listing in page order.
func (s *PageStore) PutPage(ctx context.Context, seq int, format string, data []byte) (string, error) {
	if seq <= 0 {
		return "", fmt.Errorf("sequence index must be > 0")
	}
	if format == "" {
		return "", fmt.Errorf("format is required")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty page payload")
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}

	path := filepath.Join(s.baseDir, fmt.Sprintf("page_%03d.%s", seq, format))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write page %d: %w", seq, err)
	}
	return path, nil
}

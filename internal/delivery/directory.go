package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathSource returns the currently configured export directory and its
// display label. An empty path means none was chosen.
type PathSource func() (path, label string)

// Directory writes into the user-picked export directory.
type Directory struct {
	source PathSource
}

func NewDirectory(source PathSource) *Directory {
	return &Directory{source: source}
}

func (d *Directory) Name() string { return "custom-directory" }

func (d *Directory) Deliver(_ context.Context, p Payload) (string, error) {
	if d.source == nil {
		return "", ErrNotConfigured
	}
	dir, label := d.source()
	if strings.TrimSpace(dir) == "" {
		return "", ErrNotConfigured
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("export directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("export path %s is not a directory", dir)
	}
	path, err := writeFile(dir, p)
	if err != nil {
		return "", err
	}
	if label != "" {
		return label + "/" + p.Filename, nil
	}
	return path, nil
}

// Downloads writes into a default downloads folder, creating it if needed.
type Downloads struct {
	Dir string
}

// DefaultDownloadsDir returns ~/Downloads.
func DefaultDownloadsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads"), nil
}

func (d *Downloads) Name() string { return "downloads" }

func (d *Downloads) Deliver(_ context.Context, p Payload) (string, error) {
	if d.Dir == "" {
		return "", ErrNotConfigured
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create downloads dir: %w", err)
	}
	return writeFile(d.Dir, p)
}

func writeFile(dir string, p Payload) (string, error) {
	if p.Filename == "" || filepath.Base(p.Filename) != p.Filename {
		return "", fmt.Errorf("invalid export filename %q", p.Filename)
	}
	path := filepath.Join(dir, p.Filename)
	if err := os.WriteFile(path, p.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

package delivery

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Sharer offers a file to the user through some out-of-band channel.
type Sharer interface {
	Share(ctx context.Context, path, contentType string) error
}

// Share is the last resort: the file is written into a cache directory and
// then handed to a Sharer.
type Share struct {
	CacheDir string
	Sharer   Sharer
}

func (s *Share) Name() string { return "share" }

func (s *Share) Deliver(ctx context.Context, p Payload) (string, error) {
	if s.CacheDir == "" || s.Sharer == nil {
		return "", ErrNotConfigured
	}
	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	path, err := writeFile(s.CacheDir, p)
	if err != nil {
		return "", err
	}
	if err := s.Sharer.Share(ctx, path, p.ContentType); err != nil {
		return path, fmt.Errorf("share %s: %w", path, err)
	}
	return path, nil
}

// CommandSharer runs an external command with the file path appended as the
// last argument, e.g. "xdg-open" or "termux-share -a send".
type CommandSharer struct {
	Command string
}

func (c CommandSharer) Share(ctx context.Context, path, _ string) error {
	fields := strings.Fields(c.Command)
	if len(fields) == 0 {
		return ErrNotConfigured
	}
	args := append(fields[1:], path)
	out, err := exec.CommandContext(ctx, fields[0], args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", fields[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

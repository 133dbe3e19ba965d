package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrPickCancelled = errors.New("directory selection cancelled")

// Picker asks the user for a destination directory.
type Picker interface {
	Pick(ctx context.Context) (path, label string, err error)
}

// PathSetter persists the picked directory.
type PathSetter interface {
	SetExportPath(ctx context.Context, path, label string) error
}

// StaticPicker returns a fixed directory, validating that it exists.
type StaticPicker struct {
	Path  string
	Label string
}

func (s StaticPicker) Pick(_ context.Context) (string, string, error) {
	if s.Path == "" {
		return "", "", ErrPickCancelled
	}
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return "", "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("export directory: %w", err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%s is not a directory", abs)
	}
	label := s.Label
	if label == "" {
		label = filepath.Base(abs)
	}
	return abs, label, nil
}

// ChooseExportPath runs the picker and stores the result.
func ChooseExportPath(ctx context.Context, picker Picker, settings PathSetter) (string, string, error) {
	path, label, err := picker.Pick(ctx)
	if err != nil {
		return "", "", err
	}
	if err := settings.SetExportPath(ctx, path, label); err != nil {
		return "", "", fmt.Errorf("save export path: %w", err)
	}
	return path, label, nil
}

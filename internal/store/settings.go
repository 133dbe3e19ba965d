package store

import (
	"context"
	"log/slog"
	"sync"

	"okane/internal/core"
	"okane/internal/storage"
)

// Settings holds the auto-export configuration.
type Settings struct {
	adapter storage.Adapter
	commit  func(Change)

	mu      sync.Mutex
	current core.ExportSettings
}

func (s *Settings) load(ctx context.Context) {
	loaded := core.DefaultExportSettings()
	if storage.LoadJSON(ctx, s.adapter, storage.KeyExportSettings, &loaded) {
		if err := loaded.Frequency.Validate(); err != nil {
			slog.WarnContext(ctx, "Ignoring unknown export frequency", "frequency", loaded.Frequency)
			loaded.Frequency = core.FrequencyOff
		}
	} else {
		loaded = core.DefaultExportSettings()
	}
	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
}

func (s *Settings) Get() core.ExportSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetFrequency changes the auto-export cadence.
func (s *Settings) SetFrequency(ctx context.Context, f core.Frequency) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, func(cur *core.ExportSettings) { cur.Frequency = f })
}

// MarkExported records a successful delivery.
func (s *Settings) MarkExported(ctx context.Context, at core.Millis) error {
	return s.mutate(ctx, func(cur *core.ExportSettings) { cur.LastExport = at })
}

// SetExportPath stores the user-picked export directory and its display
// label. An empty path clears the choice.
func (s *Settings) SetExportPath(ctx context.Context, path, label string) error {
	return s.mutate(ctx, func(cur *core.ExportSettings) {
		cur.ExportPath = path
		cur.ExportPathLabel = label
		if path == "" {
			cur.ExportPathLabel = ""
		}
	})
}

func (s *Settings) mutate(ctx context.Context, fn func(*core.ExportSettings)) error {
	s.mu.Lock()
	next := s.current
	fn(&next)
	if err := storage.SaveJSON(ctx, s.adapter, storage.KeyExportSettings, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	s.mu.Unlock()

	s.commit(Change{Kind: ChangeUpdated, Collection: CollectionSettings})
	return nil
}

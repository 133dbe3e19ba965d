package transfer

import (
	"context"
	"fmt"

	"okane/internal/core"
	"okane/internal/delivery"
	"okane/internal/log"
	"okane/internal/store"
)

// Deliverer hands a payload to the outside world.
type Deliverer interface {
	Deliver(ctx context.Context, p delivery.Payload) (delivery.Receipt, error)
}

// Service couples export with delivery and bookkeeping of the last export.
type Service struct {
	engine    *Engine
	store     *store.Store
	deliverer Deliverer
	logger    *log.Logger
}

func NewService(engine *Engine, s *store.Store, deliverer Deliverer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		engine:    engine,
		store:     s,
		deliverer: deliverer,
		logger:    logger.WithComponent(log.ComponentTransfer),
	}
}

// Export builds the file and delivers it. lastExport only moves forward when
// delivery succeeded.
func (s *Service) Export(ctx context.Context, format Format) (delivery.Receipt, error) {
	now := s.store.Now()
	payload, err := s.engine.Export(format, now)
	if err != nil {
		return delivery.Receipt{}, err
	}
	receipt, err := s.deliverer.Deliver(ctx, payload)
	if err != nil {
		return delivery.Receipt{}, fmt.Errorf("deliver %s: %w", payload.Filename, err)
	}
	if err := s.store.Settings.MarkExported(ctx, core.MillisOf(now)); err != nil {
		// The file is out; only the bookkeeping failed.
		s.logger.WarnContext(ctx, "Export delivered but lastExport not saved", log.FieldError, err)
	}
	s.logger.InfoContext(ctx, "Export completed",
		log.FieldFormat, string(format),
		log.FieldFilename, payload.Filename,
		log.FieldStrategy, receipt.Strategy)
	return receipt, nil
}

// Import forwards to the engine.
func (s *Service) Import(ctx context.Context, data []byte) (Result, error) {
	return s.engine.Import(ctx, data)
}

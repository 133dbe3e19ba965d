// Package delivery hands export files to the outside world. Strategies are
// tried in priority order; a failing strategy is logged and the next one is
// attempted, so an export only fails when every channel has failed.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"okane/internal/log"
)

var (
	// ErrNotConfigured is returned by a strategy that has nothing to do, for
	// example a custom directory that was never picked. The chain skips it
	// without logging a failure.
	ErrNotConfigured = errors.New("delivery strategy not configured")

	// ErrExhausted means no strategy accepted the payload.
	ErrExhausted = errors.New("all delivery strategies failed")
)

type (
	// Payload is an export file ready to be written.
	Payload struct {
		Filename    string
		ContentType string
		Data        []byte
	}

	// Receipt names the strategy that succeeded and where the file went.
	Receipt struct {
		Strategy    string
		Destination string
		At          time.Time
	}

	Strategy interface {
		Name() string
		Deliver(ctx context.Context, p Payload) (destination string, err error)
	}
)

// Chain is an ordered list of strategies.
type Chain struct {
	strategies []Strategy
	logger     *log.Logger
	now        func() time.Time
}

func NewChain(logger *log.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Chain{
		strategies: strategies,
		logger:     logger.WithComponent(log.ComponentDelivery),
		now:        time.Now,
	}
}

// Strategies returns the names of the configured strategies in order.
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Deliver tries each strategy in turn and returns the first success.
func (c *Chain) Deliver(ctx context.Context, p Payload) (Receipt, error) {
	var errs []error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return Receipt{}, err
		}
		dest, err := s.Deliver(ctx, p)
		if errors.Is(err, ErrNotConfigured) {
			c.logger.DebugContext(ctx, "Skipping unconfigured delivery strategy", log.FieldStrategy, s.Name())
			continue
		}
		if err != nil {
			c.logger.WarnContext(ctx, "Delivery strategy failed, trying next",
				log.NewFields().
					WithDelivery(s.Name(), dest).
					WithOperation(log.OpDeliver).
					WithError(err).
					ToSlice()...)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}

		c.logger.InfoContext(ctx, "Export delivered",
			log.FieldStrategy, s.Name(),
			log.FieldDestination, dest,
			log.FieldFilename, p.Filename)
		return Receipt{Strategy: s.Name(), Destination: dest, At: c.now()}, nil
	}
	return Receipt{}, errors.Join(append([]error{ErrExhausted}, errs...)...)
}

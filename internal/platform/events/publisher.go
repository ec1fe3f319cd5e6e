package events

import (
	"context"
	"errors"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
)

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, ...domain.DocumentEvent) error { return nil }

// Multi fans events out to every publisher and joins their errors.
type Multi []gateways.EventPublisher

func (m Multi) Publish(ctx context.Context, events ...domain.DocumentEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CacheInvalidator drops cached dashboard figures whenever a document changes.
type CacheInvalidator struct {
	Cache gateways.Cache
}

func (c CacheInvalidator) Publish(ctx context.Context, events ...domain.DocumentEvent) error {
	if len(events) == 0 || c.Cache == nil {
		return nil
	}
	return c.Cache.Invalidate(ctx)
}

var (
	_ gateways.EventPublisher = Noop{}
	_ gateways.EventPublisher = Multi(nil)
	_ gateways.EventPublisher = CacheInvalidator{}
)

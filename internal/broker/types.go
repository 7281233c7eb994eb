package broker

import (
	"context"

	"reportfilter/pkg/models"
)

// Publisher writes session events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.Event) error { return nil }
func (NoopPublisher) Close() error                                { return nil }

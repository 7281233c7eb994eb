package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"reportfilter/internal/broker"
	"reportfilter/internal/config"
	"reportfilter/internal/logger"
)

type Base struct {
	Config    *config.Config
	Logger    logger.Logger
	Publisher broker.Publisher
}

func NewBase(cfg *config.Config, log logger.Logger) *Base {
	return &Base{
		Config:    cfg,
		Logger:    log,
		Publisher: broker.NoopPublisher{},
	}
}

func (b *Base) InitBroker() error {
	publisher, err := broker.NewPublisher(b.Config.Broker, b.Logger)
	if err != nil {
		return fmt.Errorf("failed to create publisher: %w", err)
	}

	b.Publisher = publisher
	return nil
}

func (b *Base) ShutdownBroker() []error {
	if b.Publisher == nil {
		return nil
	}
	if err := b.Publisher.Close(); err != nil {
		return []error{fmt.Errorf("publisher close error: %w", err)}
	}
	return nil
}

func (b *Base) Shutdown(ctx context.Context, additionalShutdown func(ctx context.Context) []error) error {
	b.Logger.InfowCtx(ctx, "Shutting down application...")

	var errs []error

	if additionalShutdown != nil {
		errs = append(errs, additionalShutdown(ctx)...)
	}

	// the broker goes last so in-flight requests can still publish
	errs = append(errs, b.ShutdownBroker()...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	b.Logger.InfowCtx(ctx, "Application exited successfully")
	return nil
}

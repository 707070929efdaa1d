package events

import "context"

// Publisher sends envelopes to whatever carries the order stream.
type Publisher interface {
	Publish(ctx context.Context, event Envelope) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Envelope) error { return nil }

func (NoopPublisher) Close() error { return nil }

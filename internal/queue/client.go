package queue

import "context"

// Client publishes text events to a queue backend.
type Client interface {
	Send(ctx context.Context, evt TextEvent) error
}

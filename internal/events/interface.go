package events

import "context"

// Publisher is the write side of the fan-out channel: services publish one
// event per committed mutation.
type Publisher interface {
	// Publish queues an event for delivery to the daemon.
	Publish(event BoardEvent) error
}

// Subscriber is the read side used by board observers.
type Subscriber interface {
	// Join subscribes to a board's channel.
	Join(boardID string) error

	// Leave unsubscribes from a board's channel.
	Leave(boardID string) error

	// Listen returns a channel of events for joined boards. Reconnection is
	// handled internally; the channel closes when ctx is done or
	// reconnection gives up.
	Listen(ctx context.Context) (<-chan BoardEvent, error)
}

// Channel is the full client surface: connect, publish, subscribe, close.
type Channel interface {
	Publisher
	Subscriber

	// Connect establishes the connection to the daemon socket.
	Connect(ctx context.Context) error

	// Status reports the current connection state.
	Status() ConnectionStatus

	// Close tears down the connection and stops all goroutines.
	Close() error
}

// Compile-time verification that *Client implements Channel.
var _ Channel = (*Client)(nil)

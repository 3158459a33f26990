package app

import (
	"github.com/rcanales/lanes/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	publisher events.Publisher
}

// WithPublisher sets the event publisher for the application
func WithPublisher(p events.Publisher) Option {
	return func(cfg *appConfig) {
		cfg.publisher = p
	}
}

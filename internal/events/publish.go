package events

import (
	"log/slog"
	"time"
)

// PublishWithRetry publishes an event with up to maxRetries attempts and
// exponential backoff between them. It is meant for the service layer,
// where the mutation has already been persisted: losing the broadcast only
// delays other observers, so failure must not fail the operation.
func PublishWithRetry(publisher Publisher, event BoardEvent, maxRetries int) error {
	if publisher == nil {
		return nil // no daemon configured (tests, standalone mode)
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := publisher.Publish(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"kind", event.Kind,
					"board_id", event.BoardID)
			}
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			delay := baseDelay * (1 << attempt)
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			time.Sleep(delay)
		}
	}

	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"kind", event.Kind,
		"board_id", event.BoardID,
		"error", lastErr)

	return lastErr
}

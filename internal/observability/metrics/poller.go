package metrics

import (
	"context"
	"time"
)

type pollerFunction = func(ctx context.Context) error

// RecordPollerDuration wraps a poller body so each run is timed into the
// poller duration histogram, labeled by poller name and outcome.
func RecordPollerDuration(name string, f pollerFunction) pollerFunction {
	return func(ctx context.Context) error {
		startTime := time.Now()
		err := f(ctx)
		duration := time.Since(startTime).Seconds()

		status := Success
		if err != nil {
			status = Error
		}
		pollerDurationHistogram.WithLabelValues(name, status.String()).Observe(duration)

		return err
	}
}

package decoder

import (
	"log/slog"
)

// CacheBuilderOption is a functional option for configuring a Cache via NewCache.
type CacheBuilderOption func(*cache)

// WithWorkers sets the number of worker goroutines Prefetch decodes on.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - CacheBuilderOption: a function that applies the worker count to a cache
func WithWorkers(n int) CacheBuilderOption {
	return func(c *cache) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithQueueSize sets the task queue capacity of the Prefetch worker pool.
//
// Parameters:
//   - n: the queue capacity (minimum 1)
//
// Returns:
//   - CacheBuilderOption: a function that applies the queue size to a cache
func WithQueueSize(n int) CacheBuilderOption {
	return func(c *cache) {
		if n < 1 {
			n = 1
		}
		c.queueSize = n
	}
}

// WithCacheLogger sets the logger used for decode diagnostics. A nil logger is ignored.
func WithCacheLogger(logger *slog.Logger) CacheBuilderOption {
	return func(c *cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

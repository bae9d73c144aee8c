package decoder

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"golang.org/x/sync/singleflight"
)

// cache is the implementation of the Cache interface.
type cache struct {
	mu      sync.RWMutex
	entries map[int][]float32

	group singleflight.Group

	workers   int
	queueSize int
	pool      worker.DynamicWorkerPool
	closed    bool
	poolMu    sync.Mutex

	logger *slog.Logger
}

// Cache memoizes Decode results keyed by accessor index.
// A Cache belongs to a single Graph; accessors from different graphs share index space and must not be mixed.
// All methods are safe for concurrent use.
type Cache interface {
	// Read returns the decoded components of acc, decoding on first access.
	// Repeated reads of the same accessor return the same slice; callers must not modify it.
	// Concurrent first reads of one accessor perform a single decode and all observe its result.
	// Failed decodes are not cached.
	//
	// Parameters:
	//   - acc: a fully linked accessor
	//
	// Returns:
	//   - []float32: the decoded components
	//   - error: any Decode error
	Read(acc *model.Accessor) ([]float32, error)

	// Prefetch decodes the given accessors concurrently on the cache's worker pool and blocks until all finish.
	// Accessors already cached are skipped. After Close, accessors are decoded on the calling goroutine.
	//
	// Parameters:
	//   - accessors: the accessors to decode
	//
	// Returns:
	//   - error: the joined errors of every failed decode, or nil
	Prefetch(accessors ...*model.Accessor) error

	// Len returns the number of cached accessors.
	Len() int

	// Contains reports whether the accessor with the given index has been decoded and cached.
	Contains(index int) bool

	// Close stops the worker pool. The cache stays readable.
	Close()
}

var _ Cache = &cache{}

// NewCache creates a new, empty Cache with the provided options applied.
//
// Parameters:
//   - options: a variadic list of CacheBuilderOption functions to configure the Cache
//
// Returns:
//   - Cache: a new Cache instance
func NewCache(options ...CacheBuilderOption) Cache {
	c := &cache{
		entries:   make(map[int][]float32),
		workers:   max(runtime.NumCPU()-1, 1),
		queueSize: 64,
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cache) Read(acc *model.Accessor) ([]float32, error) {
	if acc == nil {
		return nil, fmt.Errorf("accessor is nil: %w", common.ErrInvalidAccessor)
	}

	c.mu.RLock()
	if cached, ok := c.entries[acc.Index]; ok {
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(strconv.Itoa(acc.Index), func() (any, error) {
		// A previous flight may have finished between the read-locked lookup and this call.
		c.mu.RLock()
		if cached, ok := c.entries[acc.Index]; ok {
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()

		start := time.Now()
		decoded, err := Decode(acc)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[acc.Index] = decoded
		c.mu.Unlock()

		c.logger.Debug("decoded accessor",
			slog.Int("accessor", acc.Index),
			slog.Int("components", len(decoded)),
			slog.Duration("elapsed", time.Since(start)))
		return decoded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

func (c *cache) Prefetch(accessors ...*model.Accessor) error {
	pending := make([]*model.Accessor, 0, len(accessors))
	for _, acc := range accessors {
		if acc != nil && c.Contains(acc.Index) {
			continue
		}
		pending = append(pending, acc)
	}
	if len(pending) == 0 {
		return nil
	}

	pool := c.workerPool()
	if pool == nil {
		var errs []error
		for _, acc := range pending {
			if _, err := c.Read(acc); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	// The pool's own Wait only returns once workers idle-exit, so completion is tracked per batch.
	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []error
	)
	for i, acc := range pending {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: acc,
			Do: func() (any, error) {
				defer wg.Done()
				decoded, err := c.Read(acc)
				if err != nil {
					errMu.Lock()
					errs = append(errs, err)
					errMu.Unlock()
				}
				return decoded, err
			},
		})
	}
	wg.Wait()

	c.logger.Debug("prefetched accessors",
		slog.Int("requested", len(accessors)),
		slog.Int("decoded", len(pending)),
		slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *cache) Contains(index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[index]
	return ok
}

func (c *cache) Close() {
	c.poolMu.Lock()
	defer c.poolMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.pool != nil {
		c.pool.Stop()
		c.pool = nil
	}
}

// workerPool returns the lazily started worker pool, or nil once the cache is closed.
func (c *cache) workerPool() worker.DynamicWorkerPool {
	c.poolMu.Lock()
	defer c.poolMu.Unlock()

	if c.closed {
		return nil
	}
	if c.pool == nil {
		c.pool = worker.NewDynamicWorkerPool(c.workers, c.queueSize, time.Second)
	}
	return c.pool
}

package shutdown

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"github.com/vinayprograms/resumekit/errors"
	"github.com/vinayprograms/resumekit/logging"
)

// Release phases used by resumectl. Lower phases run first.
const (
	PhaseManager   = 10 // close the manager and its store
	PhaseEvents    = 20 // flush and close the event exporter
	PhaseTracing   = 30 // flush spans and stop the trace provider
	PhaseTransport = 40 // drain the NATS connection
)

// ErrAlreadyShutdown is returned by every Shutdown call after the first.
var ErrAlreadyShutdown = stderrors.New("shutdown already initiated")

// Func releases one resource.
type Func func(ctx context.Context) error

// Config configures the coordinator.
type Config struct {
	// DefaultTimeout bounds ShutdownWithTimeout(0).
	// Default: 10 seconds
	DefaultTimeout time.Duration

	// Logger receives one line per handler. Default discards.
	Logger *logging.Logger
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout: 10 * time.Second,
	}
}

// HandlerResult is the outcome of one handler.
type HandlerResult struct {
	Name     string
	Phase    int
	Duration time.Duration
	Err      error
}

type registration struct {
	name  string
	phase int
	fn    Func
}

// Coordinator runs registered handlers once, phase by phase.
type Coordinator struct {
	config Config
	logger *logging.Logger

	mu       sync.Mutex
	handlers []registration
	results  []HandlerResult
	once     sync.Once
	done     chan struct{}
	err      error
}

// NewCoordinator creates a coordinator.
func NewCoordinator(config Config) *Coordinator {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = DefaultConfig().DefaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Coordinator{
		config: config,
		logger: logger.WithComponent("shutdown"),
		done:   make(chan struct{}),
	}
}

// Register adds a handler. Registration order is kept within a phase.
func (c *Coordinator) Register(name string, phase int, fn Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, registration{name: name, phase: phase, fn: fn})
}

// Shutdown runs every handler. Only the first call does any work.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	first := false
	c.once.Do(func() {
		first = true
		c.err = c.run(ctx)
		close(c.done)
	})
	if !first {
		return ErrAlreadyShutdown
	}
	return c.err
}

// ShutdownWithTimeout runs Shutdown with a deadline. Zero uses
// Config.DefaultTimeout.
func (c *Coordinator) ShutdownWithTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = c.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Shutdown(ctx)
}

// Done is closed when shutdown has finished.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Results returns handler outcomes in execution order.
// Only valid after Done() is closed.
func (c *Coordinator) Results() []HandlerResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]HandlerResult, len(c.results))
	copy(out, c.results)
	return out
}

func (c *Coordinator) run(ctx context.Context) error {
	c.mu.Lock()
	handlers := make([]registration, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].phase < handlers[j].phase
	})

	var errs []error
	for _, group := range groupByPhase(handlers) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, errors.Wrap(err, "shutdown interrupted"))
			break
		}
		for _, hr := range c.runPhase(ctx, group) {
			if hr.Err != nil {
				errs = append(errs, errors.Wrap(hr.Err, "release "+hr.Name))
			}
		}
	}
	return errors.Join(errs...)
}

// runPhase runs one phase concurrently and records results in
// registration order.
func (c *Coordinator) runPhase(ctx context.Context, group []registration) []HandlerResult {
	results := make([]HandlerResult, len(group))
	var wg sync.WaitGroup
	for i, reg := range group {
		wg.Add(1)
		go func(i int, r registration) {
			defer wg.Done()
			start := time.Now()
			err := r.fn(ctx)
			results[i] = HandlerResult{Name: r.name, Phase: r.phase, Duration: time.Since(start), Err: err}
		}(i, reg)
	}
	wg.Wait()

	c.mu.Lock()
	c.results = append(c.results, results...)
	c.mu.Unlock()

	for _, hr := range results {
		fields := map[string]interface{}{
			"handler":  hr.Name,
			"phase":    hr.Phase,
			"duration": hr.Duration.String(),
		}
		if hr.Err != nil {
			fields["error"] = hr.Err.Error()
			c.logger.Warn("release_failed", fields)
		} else {
			c.logger.Debug("released", fields)
		}
	}
	return results
}

// groupByPhase splits handlers, already sorted by phase, into phases.
func groupByPhase(handlers []registration) [][]registration {
	var groups [][]registration
	for i, h := range handlers {
		if i == 0 || h.phase != handlers[i-1].phase {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], h)
	}
	return groups
}

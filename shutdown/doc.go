// Package shutdown releases process resources in a fixed order.
//
// A resumectl run holds a manager (and its backing store), a mutation event
// exporter, a trace provider and possibly a NATS connection. Each is
// registered with a phase; lower phases are released first, so the manager
// closes its store before the connection under it goes away and pending
// events are flushed before the process exits.
//
//	┌───────────────┐   ┌───────────────┐   ┌───────────────┐   ┌───────────────┐
//	│   manager     │ → │    events     │ → │    tracing    │ → │   transport   │
//	│  (phase 10)   │   │  (phase 20)   │   │  (phase 30)   │   │  (phase 40)   │
//	└───────────────┘   └───────────────┘   └───────────────┘   └───────────────┘
//
// # Usage
//
//	coord := shutdown.NewCoordinator(shutdown.DefaultConfig())
//	coord.Register("nats", shutdown.PhaseTransport, func(ctx context.Context) error {
//	    return nc.Drain()
//	})
//	coord.Register("manager", shutdown.PhaseManager, func(ctx context.Context) error {
//	    return m.Close()
//	})
//
//	defer coord.ShutdownWithTimeout(0)
//
// Handlers in the same phase run concurrently. A failing handler does not
// stop later phases; all failures are joined into the returned error.
package shutdown

package shutdown

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vinayprograms/resumekit/logging"
)

func TestShutdown_PhaseOrder(t *testing.T) {
	coord := NewCoordinator(DefaultConfig())

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) Func {
		return func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	coord.Register("nats", PhaseTransport, record("nats"))
	coord.Register("tracing", PhaseTracing, record("tracing"))
	coord.Register("manager", PhaseManager, record("manager"))
	coord.Register("events", PhaseEvents, record("events"))

	if err := coord.ShutdownWithTimeout(time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	want := []string{"manager", "events", "tracing", "nats"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}

	select {
	case <-coord.Done():
	default:
		t.Error("Done() should be closed")
	}

	results := coord.Results()
	if len(results) != 4 || results[0].Name != "manager" || results[0].Phase != PhaseManager {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestShutdown_ContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New()
	logger.SetOutput(&buf)
	coord := NewCoordinator(Config{Logger: logger})

	closeErr := stderrors.New("store already closed")
	tracingRan := false
	coord.Register("manager", PhaseManager, func(ctx context.Context) error { return closeErr })
	coord.Register("tracing", PhaseTracing, func(ctx context.Context) error {
		tracingRan = true
		return nil
	})

	err := coord.Shutdown(context.Background())
	if err == nil {
		t.Fatal("expected joined error")
	}
	if !stderrors.Is(err, closeErr) {
		t.Errorf("error should wrap handler failure: %v", err)
	}
	if !tracingRan {
		t.Error("later phases should still run")
	}
	if !strings.Contains(buf.String(), "release_failed") || !strings.Contains(buf.String(), "handler=manager") {
		t.Errorf("expected failure log, got:\n%s", buf.String())
	}
}

func TestShutdown_Once(t *testing.T) {
	coord := NewCoordinator(DefaultConfig())
	calls := 0
	coord.Register("manager", PhaseManager, func(ctx context.Context) error {
		calls++
		return nil
	})

	if err := coord.Shutdown(context.Background()); err != nil {
		t.Fatalf("first Shutdown failed: %v", err)
	}
	if err := coord.Shutdown(context.Background()); err != ErrAlreadyShutdown {
		t.Errorf("second Shutdown = %v, want ErrAlreadyShutdown", err)
	}
	if calls != 1 {
		t.Errorf("handler called %d times", calls)
	}
}

func TestShutdown_SamePhaseConcurrent(t *testing.T) {
	coord := NewCoordinator(DefaultConfig())

	// Both handlers must be running at the same time to release the barrier.
	var ready sync.WaitGroup
	ready.Add(2)
	barrier := func(ctx context.Context) error {
		ready.Done()
		done := make(chan struct{})
		go func() { ready.Wait(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	coord.Register("a", PhaseEvents, barrier)
	coord.Register("b", PhaseEvents, barrier)

	if err := coord.ShutdownWithTimeout(2 * time.Second); err != nil {
		t.Errorf("same-phase handlers should run concurrently: %v", err)
	}
}

func TestShutdown_Interrupted(t *testing.T) {
	coord := NewCoordinator(DefaultConfig())
	ran := false
	coord.Register("manager", PhaseManager, func(ctx context.Context) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := coord.Shutdown(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
	if ran {
		t.Error("no phase should start after cancellation")
	}
}

func TestShutdown_Empty(t *testing.T) {
	coord := NewCoordinator(Config{})
	if err := coord.ShutdownWithTimeout(0); err != nil {
		t.Errorf("empty shutdown failed: %v", err)
	}
	if coord.config.DefaultTimeout != DefaultConfig().DefaultTimeout {
		t.Errorf("DefaultTimeout = %v", coord.config.DefaultTimeout)
	}
}

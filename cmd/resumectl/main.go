// Command resumectl manages a resume database from the command line.
//
// Usage:
//
//	resumectl [-config FILE] [-data FILE] [-json] [-log-level LEVEL] <command> [flags] [args]
//
// Commands:
//
//	create             -name N -email E [-id ID] [-phone P] [-address A] [-set key=value]...
//	get                -id ID
//	list
//	update             -id ID [-set key=value]... [-skills a,b,c]
//	delete             -id ID
//	add-experience     -id ID -company C -position P -start YYYY-MM [-end YYYY-MM|current] [-description D]
//	add-education      -id ID -institution I -degree D -field F -year YYYY [-gpa G]
//	add-skill          -id ID SKILL[,SKILL...]
//	search             QUERY
//	filter-skill       SKILL
//	filter-experience  MIN
//	stats
//
// Settings come from resumekit.toml (or -config), a .env file and
// RESUMEKIT_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vinayprograms/resumekit/config"
	"github.com/vinayprograms/resumekit/errors"
	"github.com/vinayprograms/resumekit/logging"
	"github.com/vinayprograms/resumekit/manager"
	"github.com/vinayprograms/resumekit/shutdown"
	"github.com/vinayprograms/resumekit/store"
	"github.com/vinayprograms/resumekit/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries what every command needs.
type app struct {
	mgr    *manager.Manager
	out    io.Writer
	asJSON bool
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("resumectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "config file (default: resumekit.toml or ~/.config/resumekit/config.toml)")
	dataFile := global.String("data", "", "resume document file, overrides store.path")
	asJSON := global.Bool("json", false, "print results as JSON")
	logLevel := global.String("log-level", "", "log level: debug, info, warn, error")
	global.Usage = func() { usage(global) }

	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cfg, _, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *dataFile != "" {
		cfg.Store.Path = *dataFile
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := logging.New()
	logger.SetOutput(stderr)
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.SetLevel(level)

	coord := shutdown.NewCoordinator(shutdown.Config{Logger: logger})
	defer coord.ShutdownWithTimeout(0)

	tracer, err := setupTracing(ctx, cfg, coord)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	events, err := telemetry.NewExporter(cfg.Telemetry.Events, cfg.Telemetry.EventsEndpoint, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	coord.Register("events", shutdown.PhaseEvents, func(ctx context.Context) error {
		return events.Close()
	})

	st, err := openStore(ctx, cfg, coord)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	mgr := manager.New(ctx, st,
		manager.WithLogger(logger),
		manager.WithTracer(tracer),
		manager.WithExporter(events),
	)
	coord.Register("manager", shutdown.PhaseManager, func(ctx context.Context) error {
		return mgr.Close()
	})

	a := &app{mgr: mgr, out: stdout, asJSON: *asJSON}
	if err := a.dispatch(ctx, global.Arg(0), global.Args()[1:]); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "resumectl %s\n\n", version)
	fmt.Fprintln(w, "Usage: resumectl [flags] <command> [command flags] [args]")
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-18s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nFlags:")
	fs.PrintDefaults()
}

// setupTracing starts the OTLP provider when enabled. Otherwise spans go
// to the no-op tracer.
func setupTracing(ctx context.Context, cfg *config.Config, coord *shutdown.Coordinator) (*telemetry.Tracer, error) {
	if !cfg.Telemetry.Enabled {
		return telemetry.GetTracer(), nil
	}
	provider, err := telemetry.InitProvider(ctx, providerConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "init tracing")
	}
	coord.Register("tracing", shutdown.PhaseTracing, provider.Shutdown)
	return provider.Tracer(), nil
}

func providerConfig(cfg *config.Config) telemetry.ProviderConfig {
	return telemetry.ProviderConfig{
		ServiceName:    telemetry.DefaultServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Protocol:       cfg.Telemetry.Protocol,
		Insecure:       cfg.Telemetry.Insecure,
		Headers:        cfg.Telemetry.Headers,
		ExportTimeout:  cfg.Telemetry.ExportTimeout,
		BatchTimeout:   time.Second,
		Debug:          cfg.Telemetry.Debug,
		StoreBackend:   cfg.Store.Backend,
		StoreLocation:  storeLocation(cfg),
	}
}

// storeLocation names the document the configured backend holds.
func storeLocation(cfg *config.Config) string {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return "memory"
	case config.BackendNATS:
		return strings.TrimSuffix(cfg.Store.NATSURL, "/") + "/" + cfg.Store.NATSBucket
	default:
		return cfg.Store.Path
	}
}

// openStore builds the configured backend.
func openStore(ctx context.Context, cfg *config.Config, coord *shutdown.Coordinator) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil

	case config.BackendNATS:
		nc, err := nats.Connect(cfg.Store.NATSURL,
			nats.Name("resumectl"),
			nats.Timeout(5*time.Second),
		)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeUnavailable, "connect "+cfg.Store.NATSURL)
		}
		coord.Register("nats", shutdown.PhaseTransport, func(ctx context.Context) error {
			return nc.Drain()
		})
		st, err := store.NewNATSStore(ctx, store.NATSStoreConfig{
			Conn:   nc,
			Bucket: cfg.Store.NATSBucket,
		})
		if err != nil {
			if errors.Is(err, errors.ErrCodeInvalidInput) {
				return nil, errors.Wrap(err, "open bucket "+cfg.Store.NATSBucket)
			}
			return nil, errors.WrapWithCode(err, errors.ErrCodeUnavailable, "open bucket "+cfg.Store.NATSBucket)
		}
		return st, nil

	default:
		return store.NewFileStore(cfg.Store.Path), nil
	}
}

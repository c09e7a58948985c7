package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/vinayprograms/resumekit/errors"
)

// NATSStore implements Store with one key in a NATS JetStream KV bucket.
// Every Write puts the whole document under that key.
type NATSStore struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	config NATSStoreConfig
	closed atomic.Bool
}

// NATSStoreConfig holds NATS KV store configuration.
type NATSStoreConfig struct {
	// Conn is the NATS connection to use. The store does not close it.
	Conn *nats.Conn

	// Bucket is the KV bucket name.
	Bucket string

	// Key is the entry holding the document.
	Key string

	// History is the number of revisions to keep.
	// Default: 1
	History int

	// MaxValueSize is the maximum document size in bytes.
	// Default: 8MB
	MaxValueSize int32

	// Timeout bounds each KV call when the caller's context has no deadline.
	// Default: 5s
	Timeout time.Duration
}

// DefaultNATSStoreConfig returns configuration with sensible defaults.
func DefaultNATSStoreConfig() NATSStoreConfig {
	return NATSStoreConfig{
		Bucket:       "resumes",
		Key:          "document",
		History:      1,
		MaxValueSize: 8 * 1024 * 1024,
		Timeout:      5 * time.Second,
	}
}

// MaxNATSHistory is the most revisions a JetStream KV bucket keeps per key.
const MaxNATSHistory = 64

// withDefaults fills unset fields and rejects values JetStream cannot hold.
func (c NATSStoreConfig) withDefaults() (NATSStoreConfig, error) {
	def := DefaultNATSStoreConfig()
	if c.Bucket == "" {
		c.Bucket = def.Bucket
	}
	if c.Key == "" {
		c.Key = def.Key
	}
	if c.History <= 0 {
		c.History = def.History
	}
	if c.History > MaxNATSHistory {
		return c, errors.InvalidInput(fmt.Sprintf("nats history %d exceeds the KV limit of %d", c.History, MaxNATSHistory),
			errors.WithField("history"))
	}
	if c.MaxValueSize <= 0 {
		c.MaxValueSize = def.MaxValueSize
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c, nil
}

// NewNATSStore creates the bucket if needed and returns a store on it.
func NewNATSStore(ctx context.Context, cfg NATSStoreConfig) (*NATSStore, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if cfg.Conn == nil {
		return nil, fmt.Errorf("nats connection required")
	}

	js, err := jetstream.New(cfg.Conn)
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:       cfg.Bucket,
		History:      uint8(cfg.History),
		MaxValueSize: cfg.MaxValueSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create kv bucket: %w", err)
	}

	return &NATSStore{
		conn:   cfg.Conn,
		kv:     kv,
		config: cfg,
	}, nil
}

func (s *NATSStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.config.Timeout)
}

// Read returns the document stored under the configured key.
func (s *NATSStore) Read(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entry, err := s.kv.Get(ctx, s.config.Key)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv get: %w", err)
	}
	return entry.Value(), nil
}

// Write puts the whole document under the configured key.
func (s *NATSStore) Write(ctx context.Context, data []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.kv.Put(ctx, s.config.Key, data); err != nil {
		return fmt.Errorf("kv put: %w", err)
	}
	return nil
}

// Location returns "nats://<bucket>/<key>".
func (s *NATSStore) Location() string {
	return "nats://" + s.config.Bucket + "/" + s.config.Key
}

// Close marks the store closed. The connection stays open.
func (s *NATSStore) Close() error {
	s.closed.Store(true)
	return nil
}

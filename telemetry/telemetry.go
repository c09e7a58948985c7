package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/vinayprograms/resumekit/logging"
)

// Mutation event names.
const (
	EventCreated         = "resume.created"
	EventUpdated         = "resume.updated"
	EventDeleted         = "resume.deleted"
	EventExperienceAdded = "resume.experience_added"
	EventEducationAdded  = "resume.education_added"
	EventSkillAdded      = "resume.skill_added"
)

// Exporter is the interface for mutation event exporters.
type Exporter interface {
	// LogEvent records an event for the given resume.
	LogEvent(name, resumeID string, data map[string]interface{})
	// Flush sends any buffered data.
	Flush() error
	// Close closes the exporter.
	Close() error
}

// Event represents a mutation event.
type Event struct {
	Name      string                 `json:"name"`
	ResumeID  string                 `json:"resume_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func newEvent(name, resumeID string, data map[string]interface{}) Event {
	return Event{
		Name:      name,
		ResumeID:  resumeID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// NewExporter creates an exporter for protocol: http posts batches to
// endpoint, file appends JSON lines to the endpoint path, noop discards.
// Delivery failures are reported on logger; nil logs to stderr.
func NewExporter(protocol, endpoint string, logger *logging.Logger) (Exporter, error) {
	switch protocol {
	case "http":
		return NewHTTPExporter(endpoint, logger), nil
	case "file":
		return NewFileExporter(endpoint, logger)
	case "noop", "":
		return NewNoopExporter(), nil
	default:
		return nil, fmt.Errorf("unknown telemetry protocol: %s", protocol)
	}
}

func exporterLogger(logger *logging.Logger) *logging.Logger {
	if logger == nil {
		logger = logging.New()
	}
	return logger.WithComponent("events")
}

// --- HTTP Exporter ---

const (
	// httpBatchSize is the number of new events that triggers a send.
	httpBatchSize = 100

	// httpMaxPending bounds the buffer while the endpoint is failing.
	// The oldest events are dropped first.
	httpMaxPending = 10 * httpBatchSize
)

// HTTPExporter posts batches of events to an HTTP endpoint as a JSON array.
// Failed batches stay buffered, up to httpMaxPending events.
type HTTPExporter struct {
	endpoint string
	client   *http.Client
	logger   *logging.Logger

	mu      sync.Mutex
	buffer  []Event
	unsent  int // events added since the last send attempt
	dropped int
}

// NewHTTPExporter creates a new HTTP exporter.
func NewHTTPExporter(endpoint string, logger *logging.Logger) *HTTPExporter {
	return &HTTPExporter{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: exporterLogger(logger),
		buffer: make([]Event, 0, httpBatchSize),
	}
}

func (e *HTTPExporter) LogEvent(name, resumeID string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.buffer) >= httpMaxPending {
		n := len(e.buffer) - httpMaxPending + 1
		e.buffer = append(e.buffer[:0], e.buffer[n:]...)
		e.dropped += n
		e.logger.EventsDropped(e.endpoint, n)
	}
	e.buffer = append(e.buffer, newEvent(name, resumeID, data))
	e.unsent++

	if e.unsent >= httpBatchSize {
		if err := e.flush(); err != nil {
			e.logger.EventExportFailed(e.endpoint, len(e.buffer), err)
		}
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (e *HTTPExporter) Dropped() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// Pending returns the number of buffered events.
func (e *HTTPExporter) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.buffer)
}

func (e *HTTPExporter) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flush()
}

func (e *HTTPExporter) flush() error {
	e.unsent = 0
	if len(e.buffer) == 0 {
		return nil
	}

	data, err := json.Marshal(e.buffer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("event endpoint returned %d", resp.StatusCode)
	}

	e.buffer = e.buffer[:0]
	return nil
}

// Close sends what is buffered. Events still pending after a failure are
// reported as dropped.
func (e *HTTPExporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.flush(); err != nil {
		e.logger.EventExportFailed(e.endpoint, len(e.buffer), err)
		e.dropped += len(e.buffer)
		e.buffer = e.buffer[:0]
		return err
	}
	return nil
}

// --- File Exporter ---

// FileExporter appends events to a file as JSON lines.
type FileExporter struct {
	path   string
	file   *os.File
	logger *logging.Logger

	mu  sync.Mutex
	err error // first write failure, returned by Flush and Close
}

// NewFileExporter creates a new file exporter.
func NewFileExporter(path string, logger *logging.Logger) (*FileExporter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	return &FileExporter{path: path, file: file, logger: exporterLogger(logger)}, nil
}

func (e *FileExporter) LogEvent(name, resumeID string, data map[string]interface{}) {
	line, err := json.Marshal(newEvent(name, resumeID, data))

	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		_, err = e.file.Write(append(line, '\n'))
	}
	if err != nil {
		e.logger.EventExportFailed(e.path, 1, err)
		if e.err == nil {
			e.err = err
		}
	}
}

// Flush syncs the file. It reports the first failed write, if any.
func (e *FileExporter) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	return e.file.Sync()
}

func (e *FileExporter) Close() error {
	flushErr := e.Flush()
	if err := e.file.Close(); err != nil {
		return err
	}
	return flushErr
}

// --- Memory Exporter ---

// MemoryExporter keeps events in memory. Useful for tests.
type MemoryExporter struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryExporter creates a new in-memory exporter.
func NewMemoryExporter() *MemoryExporter {
	return &MemoryExporter{}
}

func (e *MemoryExporter) LogEvent(name, resumeID string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, newEvent(name, resumeID, data))
}

// Events returns a copy of the recorded events.
func (e *MemoryExporter) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// Names returns the recorded event names in order.
func (e *MemoryExporter) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.events))
	for i, ev := range e.events {
		names[i] = ev.Name
	}
	return names
}

func (e *MemoryExporter) Flush() error { return nil }
func (e *MemoryExporter) Close() error { return nil }

// --- Noop Exporter ---

// NoopExporter discards all events.
type NoopExporter struct{}

// NewNoopExporter creates a new noop exporter.
func NewNoopExporter() *NoopExporter {
	return &NoopExporter{}
}

func (e *NoopExporter) LogEvent(name, resumeID string, data map[string]interface{}) {}
func (e *NoopExporter) Flush() error                                                 { return nil }
func (e *NoopExporter) Close() error                                                 { return nil }

package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vinayprograms/resumekit/errors"
)

func TestInitProvider_NoEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	_, err := InitProvider(context.Background(), ProviderConfig{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT without endpoint, got %v", err)
	}
}

func TestInitProvider_BadProtocol(t *testing.T) {
	_, err := InitProvider(context.Background(), ProviderConfig{Endpoint: "localhost:4317", Protocol: "carrier-pigeon"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for unknown protocol, got %v", err)
	}
}

func TestInitProvider_Installs(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		SetGlobalTracer(nil)
	})

	// The HTTP exporter connects lazily, so no collector is needed.
	p, err := InitProvider(context.Background(), ProviderConfig{
		Endpoint:      "http://localhost:4318",
		Protocol:      "http",
		Insecure:      true,
		Headers:       map[string]string{"authorization": "Bearer t"},
		ExportTimeout: time.Second,
		Debug:         true,
		StoreBackend:  "file",
	})
	if err != nil {
		t.Fatalf("InitProvider failed: %v", err)
	}
	if !p.Tracer().Debug() {
		t.Error("debug should reach the tracer")
	}
	if GetTracer() != p.Tracer() {
		t.Error("provider tracer should be installed globally")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(ProviderConfig{
		ServiceName:    "resumectl",
		ServiceVersion: "1.2.3",
		StoreBackend:   "nats",
		StoreLocation:  "nats://resumes/document",
	})
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}

	want := map[string]string{
		"service.name":             "resumectl",
		"service.version":          "1.2.3",
		"resumekit.store.backend":  "nats",
		"resumekit.store.location": "nats://resumes/document",
	}
	set := res.Set()
	for k, v := range want {
		got, ok := set.Value(attribute.Key(k))
		if !ok || got.AsString() != v {
			t.Errorf("%s = %q (present %v), want %q", k, got.AsString(), ok, v)
		}
	}
}

func TestNewResource_OmitsEmptyStore(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	res, err := newResource(ProviderConfig{})
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	if _, ok := res.Set().Value(AttrStoreBackend); ok {
		t.Error("store backend should be omitted when unset")
	}
	if v, _ := res.Set().Value("service.name"); v.AsString() != DefaultServiceName {
		t.Errorf("service.name = %q", v.AsString())
	}
}

func TestProviderConfig_Endpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://collector:4317")
	ep, err := ProviderConfig{}.endpoint()
	if err != nil || ep != "collector:4317" {
		t.Errorf("endpoint() = %q, %v", ep, err)
	}
	ep, err = ProviderConfig{Endpoint: "local:4318"}.endpoint()
	if err != nil || ep != "local:4318" {
		t.Errorf("explicit endpoint = %q, %v", ep, err)
	}
}

package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func TestInit_NoEndpointKeepsGlobalProvider(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("global provider should be untouched without an endpoint")
	}
}

func TestInit_WithEndpointInstallsSDKProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Init(context.Background(), Config{Endpoint: "localhost:4318", ServiceVersion: "v0.1.0"})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer shutdown(context.Background())

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("expected sdk tracer provider, got %T", otel.GetTracerProvider())
	}
}

func TestExporterOptions(t *testing.T) {
	if got := len(exporterOptions("http://collector:4318")); got != 1 {
		t.Errorf("URL endpoint: expected 1 option, got %d", got)
	}
	if got := len(exporterOptions("collector:4318")); got != 2 {
		t.Errorf("host:port endpoint: expected 2 options, got %d", got)
	}
}

func TestBuildResource(t *testing.T) {
	vals := map[attribute.Key]string{}
	for _, attr := range buildResource("v1.2.3").Attributes() {
		vals[attr.Key] = attr.Value.AsString()
	}
	if vals[semconv.ServiceNameKey] != ServiceName {
		t.Errorf("service name = %q", vals[semconv.ServiceNameKey])
	}
	if vals[semconv.ServiceVersionKey] != "v1.2.3" {
		t.Errorf("version missing: %+v", vals)
	}
}
